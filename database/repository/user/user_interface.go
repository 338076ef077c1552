package userRepo

import (
	"context"
	"errors"

	"github.com/matheuskieling/sleep-tracker/models"
)

// ErrUserNotFound is returned when no profile exists for the given id.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user directory access.
type UserRepository interface {
	// ListNotifiable returns every user with notifications enabled. Users
	// without a push token are included; callers decide what to skip.
	ListNotifiable(ctx context.Context) ([]models.UserProfile, error)
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	// ClearFCMToken sets the user's push token to the empty string.
	ClearFCMToken(ctx context.Context, id string) error
	// SetFCMToken stores a push token and opts the user in, creating the
	// profile if it does not exist yet.
	SetFCMToken(ctx context.Context, id, token string) error
	// UpdateFCMToken replaces the push token and leaves the opt-in untouched.
	UpdateFCMToken(ctx context.Context, id, token string) error
	// SetNotificationsEnabled toggles reminder delivery for the user.
	SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error
}
