package push

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"github.com/matheuskieling/sleep-tracker/models"
)

// Sender is the subset of *messaging.Client the gateway uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMGateway sends reminders through Firebase Cloud Messaging.
type FCMGateway struct {
	client           Sender
	androidChannelID string
}

func NewFCMGateway(client Sender, androidChannelID string) *FCMGateway {
	return &FCMGateway{client: client, androidChannelID: androidChannelID}
}

// Send delivers msg and returns a *SendError on failure.
func (g *FCMGateway) Send(ctx context.Context, msg models.PushMessage) error {
	if msg.Token == "" {
		return &SendError{Kind: KindOther, Reason: ReasonEmptyToken, Err: ErrEmptyToken}
	}
	if _, err := g.client.Send(ctx, g.buildMessage(msg)); err != nil {
		return classifyFCMError(err)
	}
	return nil
}

func (g *FCMGateway) buildMessage(msg models.PushMessage) *messaging.Message {
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: g.androidChannelID,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Sound: "default",
				},
			},
		},
	}
}

// classifyFCMError maps SDK errors onto the closed Kind set.
// INVALID_ARGUMENT only clears the token when FCM blames the registration
// token; any other invalid-argument rejection is a payload problem.
func classifyFCMError(err error) error {
	switch {
	case err == nil:
		return nil
	case messaging.IsUnregistered(err):
		return &SendError{Kind: KindTokenInvalid, Reason: ReasonTokenNotRegistered, Err: err}
	case messaging.IsInvalidArgument(err) || errorutils.IsInvalidArgument(err):
		if blamesRegistrationToken(err) {
			return &SendError{Kind: KindTokenInvalid, Reason: ReasonInvalidToken, Err: err}
		}
		return &SendError{Kind: KindOther, Reason: ReasonInvalidArgument, Err: err}
	case messaging.IsQuotaExceeded(err) || errorutils.IsResourceExhausted(err):
		return &SendError{Kind: KindTransient, Reason: "quota-exceeded", Err: err}
	case messaging.IsUnavailable(err) || errorutils.IsUnavailable(err):
		return &SendError{Kind: KindTransient, Reason: "unavailable", Err: err}
	case messaging.IsInternal(err) || errorutils.IsInternal(err):
		return &SendError{Kind: KindTransient, Reason: "internal", Err: err}
	case errorutils.IsDeadlineExceeded(err) || errors.Is(err, context.DeadlineExceeded):
		return &SendError{Kind: KindTransient, Reason: "deadline-exceeded", Err: err}
	case isTransportError(err):
		return &SendError{Kind: KindTransient, Reason: "network", Err: err}
	default:
		return &SendError{Kind: KindOther, Err: err}
	}
}

func blamesRegistrationToken(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "registration token") || strings.Contains(msg, "registration-token")
}

// isTransportError reports failures that never reached FCM. The SDK reports
// those as UNKNOWN without an HTTP response.
func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errorutils.IsUnknown(err) && errorutils.HTTPResponse(err) == nil
}
