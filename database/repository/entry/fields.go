package entryRepo

import (
	"github.com/matheuskieling/sleep-tracker/models"
)

// entryFromFields records which form slots are present in a raw entry
// document. Submission is decided by presence alone, so the form bodies are
// left empty rather than decoded.
func entryFromFields(userID, dateKey string, fields map[string]interface{}) *models.DayEntry {
	entry := &models.DayEntry{UserID: userID, DateString: dateKey}
	if present(fields, string(models.FormMorning)) {
		entry.Morning = &models.MorningEntry{}
	}
	if present(fields, string(models.FormNoon)) {
		entry.Noon = &models.NoonEntry{}
	}
	if present(fields, string(models.FormEvening)) {
		entry.Evening = &models.EveningEntry{}
	}
	return entry
}

func present(fields map[string]interface{}, key string) bool {
	v, ok := fields[key]
	return ok && v != nil
}
