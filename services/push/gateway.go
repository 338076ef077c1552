package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuskieling/sleep-tracker/models"
)

// Gateway delivers a single push message to one device.
type Gateway interface {
	Send(ctx context.Context, msg models.PushMessage) error
}

// Kind classifies a delivery failure.
type Kind int

const (
	// KindOther covers failures that say nothing about the token.
	KindOther Kind = iota
	// KindTokenInvalid means the token is permanently unusable and should be cleared.
	KindTokenInvalid
	// KindTransient means the provider could not serve the request right now.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindTokenInvalid:
		return "token_invalid"
	case KindTransient:
		return "transient"
	default:
		return "other"
	}
}

const (
	ReasonTokenNotRegistered = "registration-token-not-registered"
	ReasonInvalidToken       = "invalid-registration-token"
	ReasonInvalidArgument    = "invalid-argument"
	ReasonEmptyToken         = "empty-token"
	ReasonCircuitOpen        = "circuit-open"
	ReasonRateLimited        = "rate-limited"
)

// SendError is the classified failure returned by every Gateway.
type SendError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("push %s: %s", e.Kind, e.Reason)
	}
	if e.Reason == "" {
		return fmt.Sprintf("push %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("push %s (%s): %v", e.Kind, e.Reason, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// ErrEmptyToken is returned when a message has no device token.
var ErrEmptyToken = errors.New("push token is empty")

// KindOf returns the classification of err; unclassified errors are KindOther.
func KindOf(err error) Kind {
	var se *SendError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

// ReasonOf returns the provider reason attached to err, if any.
func ReasonOf(err error) string {
	var se *SendError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}

// IsTokenInvalid reports whether err means the device token should be cleared.
func IsTokenInvalid(err error) bool {
	return err != nil && KindOf(err) == KindTokenInvalid
}
