package user

import (
	"context"
	"strings"
	"testing"

	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, users ...models.UserProfile) (*DefaultUserService, *userRepo.MemoryUserRepo) {
	t.Helper()
	repo := userRepo.NewMemoryUserRepo(users...)
	svc, err := NewDefaultUserService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewDefaultUserServiceRequiresRepo(t *testing.T) {
	_, err := NewDefaultUserService(nil)
	assert.Error(t, err)
}

func TestRegisterDeviceToken(t *testing.T) {
	svc, repo := newService(t, models.UserProfile{ID: "u1", NotificationsEnabled: false})

	require.NoError(t, svc.RegisterDeviceToken(context.Background(), "u1", "  tok-123  "))

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", u.FCMToken)
	assert.True(t, u.NotificationsEnabled)
}

func TestRegisterDeviceTokenValidation(t *testing.T) {
	svc, _ := newService(t)

	assert.ErrorIs(t, svc.RegisterDeviceToken(context.Background(), "u1", "   "), ErrEmptyToken)

	err := svc.RegisterDeviceToken(context.Background(), "u1", "abc def")
	var invalid InvalidTokenError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "whitespace")

	err = svc.RegisterDeviceToken(context.Background(), "u1", strings.Repeat("a", maxTokenLength+1))
	assert.ErrorAs(t, err, &invalid)
}

func TestRotateDeviceTokenKeepsOptOut(t *testing.T) {
	svc, repo := newService(t, models.UserProfile{ID: "u1", NotificationsEnabled: false, FCMToken: "old"})

	require.NoError(t, svc.RotateDeviceToken(context.Background(), "u1", " new-tok "))

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-tok", u.FCMToken)
	assert.False(t, u.NotificationsEnabled)

	assert.ErrorIs(t, svc.RotateDeviceToken(context.Background(), "u1", ""), ErrEmptyToken)
}

func TestClearDeviceToken(t *testing.T) {
	svc, repo := newService(t, models.UserProfile{ID: "u1", NotificationsEnabled: true, FCMToken: "tok"})

	require.NoError(t, svc.ClearDeviceToken(context.Background(), "u1"))
	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, u.FCMToken)

	assert.ErrorIs(t, svc.ClearDeviceToken(context.Background(), "ghost"), userRepo.ErrUserNotFound)
}

func TestSetNotificationsEnabled(t *testing.T) {
	svc, repo := newService(t, models.UserProfile{ID: "u1", NotificationsEnabled: true, FCMToken: "tok"})

	require.NoError(t, svc.SetNotificationsEnabled(context.Background(), "u1", false))
	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, u.NotificationsEnabled)
	assert.Equal(t, "tok", u.FCMToken)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, userRepo.ErrUserNotFound)
}
