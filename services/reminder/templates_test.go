package reminder

import (
	"testing"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		form  models.FormType
		title string
		body  string
	}{
		{models.FormMorning, "Bom dia!", "Como foi sua noite de sono? Preencha o formulário da manhã."},
		{models.FormNoon, "Meio-dia!", "Como foi sua manhã? Preencha o formulário do meio-dia."},
		{models.FormEvening, "Boa noite!", "Como foi sua tarde? Preencha o formulário da noite."},
	}

	for _, tt := range tests {
		t.Run(string(tt.form), func(t *testing.T) {
			tmpl, err := TemplateFor(tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.form, tmpl.FormType)
			assert.Equal(t, tt.title, tmpl.Title)
			assert.Equal(t, tt.body, tmpl.Body)
		})
	}
}

func TestTemplateForUnknown(t *testing.T) {
	_, err := TemplateFor("night")
	assert.ErrorIs(t, err, models.ErrUnknownFormType)
}

func TestMessageFor(t *testing.T) {
	tmpl, err := TemplateFor(models.FormNoon)
	require.NoError(t, err)

	msg := MessageFor(tmpl, "tok")
	assert.Equal(t, "tok", msg.Token)
	assert.Equal(t, "Meio-dia!", msg.Title)
	assert.Equal(t, map[string]string{"formType": "noon"}, msg.Data)
}
