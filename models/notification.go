package models

import "time"

// PushMessage is a single device notification, independent of the push provider.
type PushMessage struct {
	Token string            `json:"-"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// ReminderTemplate is the fixed notification content for one form slot.
type ReminderTemplate struct {
	FormType FormType `json:"formType"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
}

// DispatchSummary records the outcome of one reminder run.
type DispatchSummary struct {
	RunID            string        `json:"runId"`
	FormType         FormType      `json:"formType"`
	Date             string        `json:"date"`
	Candidates       int           `json:"candidates"`
	SkippedNoToken   int           `json:"skippedNoToken"`
	SkippedSubmitted int           `json:"skippedSubmitted"`
	Sent             int           `json:"sent"`
	TokensCleared    int           `json:"tokensCleared"`
	Failed           int           `json:"failed"`
	StartedAt        time.Time     `json:"startedAt"`
	Duration         time.Duration `json:"duration"`
}

// ReminderPayload is the body of a reminder dispatch task.
type ReminderPayload struct {
	FormType FormType `json:"formType"`
	Job      string   `json:"job,omitempty"`
}

// DeviceTokenRequest registers or rotates the caller's push token.
type DeviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// NotificationPreferenceRequest toggles reminder delivery for the caller.
type NotificationPreferenceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
