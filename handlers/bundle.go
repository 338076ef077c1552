// File: handlers/bundle.go
package handlers

import (
	"github.com/matheuskieling/sleep-tracker/middleware"
)

// HandlerBundle groups all endpoint handlers and the auth settings routes need.
type HandlerBundle struct {
	TokenVerifier     middleware.TokenVerifier
	AdminAPIKey       string
	MaxRequestsPerMin int

	UserDeviceHandler *UserDeviceHandler
	ReminderHandler   *ReminderHandler
	HealthHandler     *HealthHandler
}
