package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerRequester stops calling a failing provider for a while so that a
// batch does not hammer a service that is down.
type BreakerRequester struct {
	next Requester
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerRequester wraps next. The breaker opens after failures
// consecutive errors and half-opens again after timeout.
func NewBreakerRequester(next Requester, failures uint32, timeout time.Duration, logger *zap.Logger) *BreakerRequester {
	if failures == 0 {
		failures = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Caller mistakes and cancellations say nothing about the service.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNoAPIKey) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("translation breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BreakerRequester{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the wrapped provider name
func (b *BreakerRequester) Name() string {
	return b.next.Name()
}

// Request forwards to the wrapped requester unless the breaker is open.
func (b *BreakerRequester) Request(ctx context.Context, prompt Prompt) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Request(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %s: %v", ErrServiceUnavailable, b.next.Name(), err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state name.
func (b *BreakerRequester) State() string {
	return b.cb.State().String()
}
