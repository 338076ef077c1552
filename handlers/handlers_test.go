package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/middleware"
	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, form models.FormType) (*models.DispatchSummary, error) {
	args := m.Called(ctx, form)
	s, _ := args.Get(0).(*models.DispatchSummary)
	return s, args.Error(1)
}

// withUser stands in for the Firebase auth middleware.
func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func newDeviceRouter(t *testing.T, repo *userRepo.MemoryUserRepo) *gin.Engine {
	t.Helper()
	svc, err := user.NewDefaultUserService(repo)
	require.NoError(t, err)
	h := NewUserDeviceHandler(svc)

	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	g := r.Group("/api/users/me", withUser("u1"))
	g.GET("/notifications", h.GetNotificationSettingsHandler)
	g.PUT("/fcm-token", h.RegisterDeviceTokenHandler)
	g.PATCH("/fcm-token", h.RotateDeviceTokenHandler)
	g.DELETE("/fcm-token", h.ClearDeviceTokenHandler)
	g.PUT("/notifications", h.UpdateNotificationPreferenceHandler)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDeviceTokenHandler(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.UserProfile{ID: "u1"})
	r := newDeviceRouter(t, repo)

	w := do(r, http.MethodPut, "/api/users/me/fcm-token", `{"token":"device-abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "device-abc", u.FCMToken)
	assert.True(t, u.NotificationsEnabled)
}

func TestRegisterDeviceTokenHandlerRejectsBadInput(t *testing.T) {
	r := newDeviceRouter(t, userRepo.NewMemoryUserRepo(models.UserProfile{ID: "u1"}))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/users/me/fcm-token", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/users/me/fcm-token", `{"token":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/users/me/fcm-token", `not json`).Code)
}

func TestRotateDeviceTokenHandler(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.UserProfile{ID: "u1", NotificationsEnabled: false, FCMToken: "old"})
	r := newDeviceRouter(t, repo)

	w := do(r, http.MethodPatch, "/api/users/me/fcm-token", `{"token":"refreshed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "refreshed", u.FCMToken)
	assert.False(t, u.NotificationsEnabled, "rotation must not opt the user back in")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/api/users/me/fcm-token", `{"token":" "}`).Code)
}

func TestClearDeviceTokenHandler(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.UserProfile{ID: "u1", NotificationsEnabled: true, FCMToken: "tok"})
	r := newDeviceRouter(t, repo)

	w := do(r, http.MethodDelete, "/api/users/me/fcm-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, u.FCMToken)
}

func TestClearDeviceTokenHandlerUnknownUser(t *testing.T) {
	r := newDeviceRouter(t, userRepo.NewMemoryUserRepo())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/users/me/fcm-token", "").Code)
}

func TestNotificationPreferenceHandlers(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.UserProfile{ID: "u1", NotificationsEnabled: true, FCMToken: "tok"})
	r := newDeviceRouter(t, repo)

	w := do(r, http.MethodPut, "/api/users/me/notifications", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/users/me/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body["notificationsEnabled"])
	assert.True(t, body["hasDeviceToken"])

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/users/me/notifications", `{}`).Code)
}

func newReminderRouter(d reminder.ReminderDispatcher) *gin.Engine {
	r := gin.New()
	r.POST("/api/admin/reminders/:formType/dispatch", NewReminderHandler(d).DispatchHandler)
	return r
}

func TestDispatchHandler(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormEvening).
		Return(&models.DispatchSummary{FormType: models.FormEvening, Date: "2024-03-15", Sent: 3}, nil)

	w := do(newReminderRouter(d), http.MethodPost, "/api/admin/reminders/evening/dispatch", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summary models.DispatchSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Summary.Sent)
	assert.Equal(t, models.FormEvening, body.Summary.FormType)
}

func TestDispatchHandlerUnknownForm(t *testing.T) {
	d := new(mockDispatcher)
	w := do(newReminderRouter(d), http.MethodPost, "/api/admin/reminders/brunch/dispatch", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestDispatchHandlerJobFailure(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormMorning).Return(nil, errors.New("list notifiable users: unavailable"))

	w := do(newReminderRouter(d), http.MethodPost, "/api/admin/reminders/morning/dispatch", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealthCheckHandler(t *testing.T) {
	metrics := reminder.NewMetrics()
	metrics.Record(&models.DispatchSummary{FormType: models.FormNoon, Sent: 2, TokensCleared: 1})

	r := gin.New()
	r.GET("/health", NewHealthHandler(metrics, func() string { return "closed" }).HealthCheckHandler)

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status      string                   `json:"status"`
		PushCircuit string                   `json:"pushCircuit"`
		Reminders   reminder.MetricsSnapshot `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "closed", body.PushCircuit)
	assert.Equal(t, int64(2), body.Reminders.Sent)
	assert.Equal(t, int64(1), body.Reminders.TokensCleared)
	assert.Contains(t, body.Reminders.LastRuns, models.FormNoon)
}
