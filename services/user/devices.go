package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/matheuskieling/sleep-tracker/models"
)

func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return u, nil
}

// RegisterDeviceToken stores the device's current token and opts the user in
// to reminders.
func (s *DefaultUserService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	token, err := normalizeToken(token)
	if err != nil {
		return err
	}
	if err := s.Repo.SetFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

// RotateDeviceToken replaces the token after the device refreshed it. The
// opt-in is left as the user set it.
func (s *DefaultUserService) RotateDeviceToken(ctx context.Context, userID, token string) error {
	token, err := normalizeToken(token)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to rotate device token: %w", err)
	}
	return nil
}

func normalizeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	if len(token) > maxTokenLength {
		return "", InvalidTokenError{Reason: "token too long"}
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return "", InvalidTokenError{Reason: "token contains whitespace"}
	}
	return token, nil
}

// ClearDeviceToken forgets the device token, e.g. on sign-out.
func (s *DefaultUserService) ClearDeviceToken(ctx context.Context, userID string) error {
	if err := s.Repo.ClearFCMToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear device token: %w", err)
	}
	return nil
}

func (s *DefaultUserService) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := s.Repo.SetNotificationsEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to update notification preference: %w", err)
	}
	return nil
}
