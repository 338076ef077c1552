package user

import (
	"errors"
	"fmt"
)

// ErrEmptyToken is returned when a device registration carries no token.
var ErrEmptyToken = errors.New("fcm token is required")

// maxTokenLength bounds stored device tokens.
const maxTokenLength = 4096

// InvalidTokenError rejects a token that cannot be a device registration token.
type InvalidTokenError struct {
	Reason string
}

func (e InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid fcm token: %s", e.Reason)
}
