package utils

import (
	"fmt"
	"time"

	// Embedded zone database so the operating timezone resolves on minimal images.
	_ "time/tzdata"
)

// DateKeyLayout is the canonical calendar-date key, YYYY-MM-DD.
const DateKeyLayout = "2006-01-02"

// DateKey returns the calendar date of instant as observed in loc.
func DateKey(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(DateKeyLayout)
}

// LoadLocation resolves an IANA timezone name. The empty name is rejected
// rather than silently mapped to UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone name is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseDateKey parses a canonical date key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}
