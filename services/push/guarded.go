package push

import (
	"context"
	"errors"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardedGateway rate-limits sends and stops calling the provider while it is
// failing. Token-level rejections do not count against the breaker.
type GuardedGateway struct {
	next    Gateway
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// BreakerSettings returns the circuit breaker configuration for push delivery.
func BreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || KindOf(err) != KindTransient
		},
	}
}

// NewGuardedGateway wraps next. perSecond <= 0 disables rate limiting.
func NewGuardedGateway(next Gateway, perSecond float64, settings gobreaker.Settings) *GuardedGateway {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &GuardedGateway{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *GuardedGateway) Send(ctx context.Context, msg models.PushMessage) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return &SendError{Kind: KindTransient, Reason: ReasonRateLimited, Err: err}
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &SendError{Kind: KindTransient, Reason: ReasonCircuitOpen, Err: err}
	}
	return err
}

// State exposes the breaker state for health reporting.
func (g *GuardedGateway) State() gobreaker.State {
	return g.breaker.State()
}
