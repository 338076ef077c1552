package user

import (
	"context"
	"errors"

	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/models"
)

// UserService manages the caller's reminder settings.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// Device Management
	RegisterDeviceToken(ctx context.Context, userID, token string) error
	RotateDeviceToken(ctx context.Context, userID, token string) error
	ClearDeviceToken(ctx context.Context, userID string) error

	// Preferences
	SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewDefaultUserService(repo userRepo.UserRepository) (*DefaultUserService, error) {
	if repo == nil {
		return nil, errors.New("user service initialization error: repository is nil")
	}
	return &DefaultUserService{Repo: repo}, nil
}
