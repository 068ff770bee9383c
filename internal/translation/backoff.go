package translation

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BackoffPolicy maps a 0-based failed-attempt index to the delay before the
// next attempt.
type BackoffPolicy func(attempt int) time.Duration

// ExponentialBackoff doubles the delay after every failed attempt, starting
// at base.
func ExponentialBackoff(base time.Duration) BackoffPolicy {
	return func(attempt int) time.Duration {
		return base * time.Duration(1<<attempt)
	}
}

// sleepFunc suspends for d or returns early when ctx is cancelled. Tests
// substitute a recording implementation.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retry runs fn up to maxAttempts times. After a transient failure on
// attempt i it sleeps policy(i) and tries again; a terminal failure stops
// immediately.
func retry(ctx context.Context, maxAttempts int, policy BackoffPolicy, sleep sleepFunc, fn func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !errors.Is(err, ErrTransient) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < maxAttempts-1 {
			if serr := sleep(ctx, policy(attempt)); serr != nil {
				return "", serr
			}
		}
	}
	return "", fmt.Errorf("translation failed after %d attempts: %w", maxAttempts, lastErr)
}
