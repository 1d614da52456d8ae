package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// RateLimitMultiplier stretches the delay after a rate limited attempt.
const RateLimitMultiplier = 3

// Hooks customize a retry loop. Every field is optional.
type Hooks struct {
	// Permanent reports errors that must not be retried. The default stops
	// on errors whose retry strategy is never or user action.
	Permanent func(error) bool
	// OnRetry runs before retry n (1-based) with the previous error.
	OnRetry func(n int, lastErr error)
	// Sleep waits between attempts; it must return early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do calls fn until it succeeds, fails permanently or the policy runs out of
// retries. The last error is returned unchanged. A wait cut short by ctx
// yields a runtime error wrapping the context error.
func Do[T any](ctx context.Context, p Policy, hooks Hooks, fn func() (T, error)) (T, error) {
	permanent := hooks.Permanent
	if permanent == nil {
		permanent = func(err error) bool { return !errors.CanRetry(err) }
	}
	sleep := hooks.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var zero T
	for n := 0; ; n++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if permanent(err) || n >= p.MaxRetries {
			return zero, err
		}
		delay := p.Delay(n + 1)
		if errors.GetRetryStrategy(err) == errors.RetryRateLimit {
			delay *= RateLimitMultiplier
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, errors.RuntimeError("retry canceled").
				WithCause(serr).
				WithContext("retry", n+1).
				Build()
		}
		if hooks.OnRetry != nil {
			hooks.OnRetry(n+1, err)
		}
	}
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
