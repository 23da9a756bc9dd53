package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy controls how a failed provider call is reattempted.
type RetryPolicy struct {
	// Attempts is the total number of tries, first call included.
	Attempts int
	// BaseDelay is the sleep before the first reattempt; each further
	// reattempt doubles it up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Jitter widens each delay by a random fraction in [-j, +j].
	Jitter float64
	// Retryable decides which errors get another attempt. Nil means
	// the package-level Retryable check.
	Retryable func(error) bool
	// OnRetry runs before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// SearchRetryPolicy is tuned for fanout search calls: one reattempt,
// short backoff, so a hiccup is absorbed without blowing the per-call
// timeout.
func SearchRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  2,
		BaseDelay: 200 * time.Millisecond,
		MaxDelay:  2 * time.Second,
		Jitter:    0.25,
		Retryable: Retryable,
	}
}

// Retry runs op under the policy, returning the first success or the
// last error. Context cancellation and non-retryable errors stop the
// loop immediately.
func Retry[T any](ctx context.Context, pol RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	if pol.Attempts <= 0 {
		pol.Attempts = 1
	}
	retryable := pol.Retryable
	if retryable == nil {
		retryable = Retryable
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= pol.Attempts; attempt++ {
		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == pol.Attempts {
			break
		}

		if pol.OnRetry != nil {
			pol.OnRetry(attempt, err)
		}

		timer := time.NewTimer(pol.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func (pol RetryPolicy) delay(attempt int) time.Duration {
	d := pol.BaseDelay << (attempt - 1)
	if pol.MaxDelay > 0 && d > pol.MaxDelay {
		d = pol.MaxDelay
	}
	if pol.Jitter > 0 {
		spread := (rand.Float64()*2 - 1) * pol.Jitter * float64(d)
		d += time.Duration(spread)
	}
	if d < 0 {
		d = 0
	}
	return d
}

// RetryNotice returns an OnRetry hook that logs which provider call is
// being reattempted.
func RetryNotice(provider, op string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("resilience: retrying",
			zap.String("provider", provider),
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
