package reminder

import (
	"fmt"

	"github.com/matheuskieling/sleep-tracker/models"
)

var templates = map[models.FormType]models.ReminderTemplate{
	models.FormMorning: {
		FormType: models.FormMorning,
		Title:    "Bom dia!",
		Body:     "Como foi sua noite de sono? Preencha o formulário da manhã.",
	},
	models.FormNoon: {
		FormType: models.FormNoon,
		Title:    "Meio-dia!",
		Body:     "Como foi sua manhã? Preencha o formulário do meio-dia.",
	},
	models.FormEvening: {
		FormType: models.FormEvening,
		Title:    "Boa noite!",
		Body:     "Como foi sua tarde? Preencha o formulário da noite.",
	},
}

// TemplateFor returns the notification content for a form slot.
func TemplateFor(form models.FormType) (models.ReminderTemplate, error) {
	t, ok := templates[form]
	if !ok {
		return models.ReminderTemplate{}, fmt.Errorf("%w: %q", models.ErrUnknownFormType, form)
	}
	return t, nil
}

// MessageFor builds the push message for one device. The data payload tells
// the app which form to open.
func MessageFor(t models.ReminderTemplate, token string) models.PushMessage {
	return models.PushMessage{
		Token: token,
		Title: t.Title,
		Body:  t.Body,
		Data:  map[string]string{"formType": string(t.FormType)},
	}
}
