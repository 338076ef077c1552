package routes

import (
	"time"

	"github.com/matheuskieling/sleep-tracker/handlers"
	"github.com/matheuskieling/sleep-tracker/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the caller's reminder settings endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users/me")
	{
		api.Use(middleware.FirebaseAuthMiddleware(hb.TokenVerifier))
		api.GET("/notifications", hb.UserDeviceHandler.GetNotificationSettingsHandler)
		api.PUT("/notifications", hb.UserDeviceHandler.UpdateNotificationPreferenceHandler)
		api.PUT("/fcm-token", hb.UserDeviceHandler.RegisterDeviceTokenHandler)
		api.PATCH("/fcm-token", hb.UserDeviceHandler.RotateDeviceTokenHandler)
		api.DELETE("/fcm-token", hb.UserDeviceHandler.ClearDeviceTokenHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler.HealthCheckHandler)
}

// RegisterAdminRoutes sets up endpoints for operator actions.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminKeyMiddleware(hb.AdminAPIKey))
		adminGroup.POST("/reminders/:formType/dispatch", hb.ReminderHandler.DispatchHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
