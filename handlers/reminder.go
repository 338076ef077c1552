package handlers

import (
	"errors"
	"net/http"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReminderHandler struct {
	Dispatcher reminder.ReminderDispatcher
}

func NewReminderHandler(dispatcher reminder.ReminderDispatcher) *ReminderHandler {
	return &ReminderHandler{Dispatcher: dispatcher}
}

// DispatchHandler runs one reminder job synchronously and returns its summary.
func (h *ReminderHandler) DispatchHandler(c *gin.Context) {
	form, err := models.ParseFormType(c.Param("formType"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unknown form type", err.Error())
		return
	}

	getLogger(c).Info("Manual reminder dispatch requested", zap.String("formType", string(form)))

	summary, err := h.Dispatcher.Dispatch(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, models.ErrUnknownFormType) {
			utils.JSONError(c, http.StatusBadRequest, "Unknown form type", err.Error())
			return
		}
		if summary != nil {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error(), "summary": summary})
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "Reminder dispatch failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
