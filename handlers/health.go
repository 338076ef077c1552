package handlers

import (
	"net/http"

	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Metrics *reminder.Metrics
	// PushState reports the push circuit breaker state; optional.
	PushState func() string
}

func NewHealthHandler(metrics *reminder.Metrics, pushState func() string) *HealthHandler {
	return &HealthHandler{Metrics: metrics, PushState: pushState}
}

// HealthCheckHandler reports dependency health and reminder metrics. It
// answers 200 while degraded so the reminder jobs keep being scheduled.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	health := utils.GetHealthStatus()
	status := "ok"
	if !health.Healthy() {
		status = "degraded"
	}

	resp := gin.H{
		"status":       status,
		"dependencies": health.Dependencies,
		"checkedAt":    health.CheckedAt,
	}
	if h.Metrics != nil {
		resp["reminders"] = h.Metrics.Snapshot()
	}
	if h.PushState != nil {
		resp["pushCircuit"] = h.PushState()
	}
	c.JSON(http.StatusOK, resp)
}
