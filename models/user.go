// models/user.go
package models

import "time"

// UserProfile is the user directory record. FCMToken is empty when no device
// is registered or after the token was found to be invalid.
type UserProfile struct {
	ID                   string    `firestore:"-" bson:"id" json:"id"`
	Name                 string    `firestore:"name" bson:"name" json:"name"`
	Email                string    `firestore:"email" bson:"email" json:"email"`
	NotificationsEnabled bool      `firestore:"notificationsEnabled" bson:"notificationsEnabled" json:"notificationsEnabled"`
	FCMToken             string    `firestore:"fcmToken" bson:"fcmToken" json:"-"`
	CreatedAt            time.Time `firestore:"createdAt,omitempty" bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time `firestore:"updatedAt,omitempty" bson:"updatedAt" json:"updatedAt"`
}

// HasPushTarget reports whether the user has a device token to deliver to.
func (u UserProfile) HasPushTarget() bool {
	return u.FCMToken != ""
}
