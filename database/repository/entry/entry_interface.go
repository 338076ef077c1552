package entryRepo

import (
	"context"

	"github.com/matheuskieling/sleep-tracker/models"
)

// EntryRepository reads the per-day form submissions of a user.
type EntryRepository interface {
	// GetEntry returns the entry for dateKey (YYYY-MM-DD), or nil, nil when
	// the user has not submitted anything that day. Store-backed
	// implementations only report which slots are present.
	GetEntry(ctx context.Context, userID, dateKey string) (*models.DayEntry, error)
}
