package store

import (
	"context"
	"time"
)

const (
	// defaultReadRetries is how many extra read attempts are made after a
	// transient failure before the error is surfaced.
	defaultReadRetries = 3
	// defaultRetryBase is the initial backoff delay between read attempts.
	defaultRetryBase = 20 * time.Millisecond
	// maxRetryDelay caps the exponential backoff.
	maxRetryDelay = 250 * time.Millisecond
)

// backoffDelay computes the exponential backoff delay for the given attempt.
// Attempt 0 yields base, doubling up to maxRetryDelay.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay > maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
