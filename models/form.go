// File: models/form.go
package models

import (
	"errors"
	"fmt"
)

// FormType identifies one of the three daily form slots.
type FormType string

const (
	FormMorning FormType = "morning"
	FormNoon    FormType = "noon"
	FormEvening FormType = "evening"
)

// ErrUnknownFormType is returned when a value is not one of the three form slots.
var ErrUnknownFormType = errors.New("unknown form type")

// AllFormTypes returns the closed set of form slots in daily order.
func AllFormTypes() []FormType {
	return []FormType{FormMorning, FormNoon, FormEvening}
}

// Valid reports whether f is one of the known form slots.
func (f FormType) Valid() bool {
	switch f {
	case FormMorning, FormNoon, FormEvening:
		return true
	}
	return false
}

func (f FormType) String() string {
	return string(f)
}

// ParseFormType converts a raw string into a FormType.
func ParseFormType(s string) (FormType, error) {
	f := FormType(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormType, s)
	}
	return f, nil
}
