package entryRepo

import (
	"context"
	"sync"

	"github.com/matheuskieling/sleep-tracker/models"
)

type entryKey struct {
	userID  string
	dateKey string
}

// MemoryEntryRepo is a process-local EntryRepository.
type MemoryEntryRepo struct {
	mu      sync.RWMutex
	entries map[entryKey]models.DayEntry
}

func NewMemoryEntryRepo() *MemoryEntryRepo {
	return &MemoryEntryRepo{entries: make(map[entryKey]models.DayEntry)}
}

// Save stores entry under its UserID and DateString.
func (r *MemoryEntryRepo) Save(entry models.DayEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entryKey{entry.UserID, entry.DateString}] = entry
}

func (r *MemoryEntryRepo) GetEntry(ctx context.Context, userID, dateKey string) (*models.DayEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[entryKey{userID, dateKey}]
	if !ok {
		return nil, nil
	}
	return &e, nil
}
