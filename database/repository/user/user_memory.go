package userRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
)

// MemoryUserRepo is a process-local UserRepository for local runs and tests.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.UserProfile
}

func NewMemoryUserRepo(users ...models.UserProfile) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]models.UserProfile, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Put inserts or replaces a profile.
func (r *MemoryUserRepo) Put(u models.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// ListNotifiable returns opted-in users ordered by id.
func (r *MemoryUserRepo) ListNotifiable(ctx context.Context) ([]models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []models.UserProfile
	for _, u := range r.users {
		if u.NotificationsEnabled {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) ClearFCMToken(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.FCMToken = ""
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	r.update(id, func(u *models.UserProfile) {
		u.FCMToken = token
		u.NotificationsEnabled = true
	})
	return nil
}

func (r *MemoryUserRepo) UpdateFCMToken(ctx context.Context, id, token string) error {
	r.update(id, func(u *models.UserProfile) {
		u.FCMToken = token
	})
	return nil
}

func (r *MemoryUserRepo) SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error {
	r.update(id, func(u *models.UserProfile) {
		u.NotificationsEnabled = enabled
	})
	return nil
}

func (r *MemoryUserRepo) update(id string, apply func(u *models.UserProfile)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	u, ok := r.users[id]
	if !ok {
		u = models.UserProfile{ID: id, CreatedAt: now}
	}
	apply(&u)
	u.UpdatedAt = now
	r.users[id] = u
}
