package cron

import "github.com/matheuskieling/sleep-tracker/models"

// Job is one scheduled reminder trigger. Schedule is a five-field cron spec
// evaluated in the operating timezone.
type Job struct {
	Name       string
	FormType   models.FormType
	Schedule   string
	RetryCount int
}

// Jobs returns the three daily reminder jobs.
func Jobs(retryCount int) []Job {
	return []Job{
		{Name: "morningNotification", FormType: models.FormMorning, Schedule: "0 8 * * *", RetryCount: retryCount},
		{Name: "noonNotification", FormType: models.FormNoon, Schedule: "0 12 * * *", RetryCount: retryCount},
		{Name: "eveningNotification", FormType: models.FormEvening, Schedule: "0 20 * * *", RetryCount: retryCount},
	}
}
