// Package retry provides the exponential backoff policy used between
// transmission attempts.
package retry

import (
	"context"
	"time"
)

// Backoff returns the delay before the next attempt after `attempt` failed
// tries: base * 2^(attempt-1), capped at maxDelay. Attempts below 1 yield the
// base delay.
func Backoff(base, maxDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		return base
	}

	// 2^31 already exceeds any sensible cap; guard the shift against overflow.
	if attempt > 31 {
		return maxDelay
	}

	delay := base * time.Duration(1<<(attempt-1))
	if delay > maxDelay || delay < base {
		return maxDelay
	}
	return delay
}

// Wait blocks for d or until ctx is done, whichever comes first.
// Returns ctx.Err() when the context ended the wait early.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
