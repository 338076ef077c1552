package handlers

import (
	"errors"
	"net/http"

	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/middleware"
	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/user"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserDeviceHandler struct {
	UserService user.UserService
}

func NewUserDeviceHandler(userService user.UserService) *UserDeviceHandler {
	return &UserDeviceHandler{UserService: userService}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "User ID not found in context", "")
	}
	return userID, ok
}

// GetNotificationSettingsHandler reports whether reminders can reach the caller.
func (h *UserDeviceHandler) GetNotificationSettingsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "User not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load notification settings", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notificationsEnabled": profile.NotificationsEnabled,
		"hasDeviceToken":       profile.HasPushTarget(),
	})
}

// RegisterDeviceTokenHandler stores the caller's FCM token and opts them in.
func (h *UserDeviceHandler) RegisterDeviceTokenHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.UserService.RegisterDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		var invalid user.InvalidTokenError
		if errors.Is(err, user.ErrEmptyToken) || errors.As(err, &invalid) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid device token", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register device token", err.Error())
		return
	}

	getLogger(c).Info("Device token registered", zap.String("userId", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Device token registered", "notificationsEnabled": true})
}

// RotateDeviceTokenHandler swaps in a refreshed token without touching the
// caller's opt-in.
func (h *UserDeviceHandler) RotateDeviceTokenHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.UserService.RotateDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		var invalid user.InvalidTokenError
		if errors.Is(err, user.ErrEmptyToken) || errors.As(err, &invalid) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid device token", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to rotate device token", err.Error())
		return
	}

	getLogger(c).Info("Device token rotated", zap.String("userId", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Device token rotated"})
}

// ClearDeviceTokenHandler forgets the caller's device token.
func (h *UserDeviceHandler) ClearDeviceTokenHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.UserService.ClearDeviceToken(c.Request.Context(), userID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "User not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to clear device token", err.Error())
		return
	}

	getLogger(c).Info("Device token cleared", zap.String("userId", userID))
	c.Status(http.StatusNoContent)
}

// UpdateNotificationPreferenceHandler toggles the caller's reminders.
func (h *UserDeviceHandler) UpdateNotificationPreferenceHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.NotificationPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.UserService.SetNotificationsEnabled(c.Request.Context(), userID, *req.Enabled); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update notification preference", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"notificationsEnabled": *req.Enabled})
}
