package userRepo

import (
	"fmt"

	"github.com/matheuskieling/sleep-tracker/models"
)

// Field names shared with the mobile app.
const (
	FieldID                   = "id"
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldNotificationsEnabled = "notificationsEnabled"
	FieldFCMToken             = "fcmToken"
	FieldUpdatedAt            = "updatedAt"
	FieldCreatedAt            = "createdAt"
)

// profileFromFields reads the reminder fields of a raw user document. Only
// notificationsEnabled and fcmToken must have the expected type; anything
// else the app stored is ignored when it does not fit.
func profileFromFields(id string, fields map[string]interface{}) (models.UserProfile, error) {
	u := models.UserProfile{ID: id}
	if v, ok := fields[FieldNotificationsEnabled]; ok && v != nil {
		enabled, ok := v.(bool)
		if !ok {
			return u, fmt.Errorf("user %s: %s has type %T", id, FieldNotificationsEnabled, v)
		}
		u.NotificationsEnabled = enabled
	}
	if v, ok := fields[FieldFCMToken]; ok && v != nil {
		token, ok := v.(string)
		if !ok {
			return u, fmt.Errorf("user %s: %s has type %T", id, FieldFCMToken, v)
		}
		u.FCMToken = token
	}
	u.Name, _ = fields[FieldName].(string)
	u.Email, _ = fields[FieldEmail].(string)
	return u, nil
}
