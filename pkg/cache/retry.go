package cache

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/matzehuels/supplychain/pkg/errors"
)

const (
	retryAttempts = 3
	retryBaseWait = time.Second

	// maxRetryAfter caps how long a server's Retry-After can stall a run.
	maxRetryAfter = 30 * time.Second
)

// RetryWithBackoff calls fn up to three times. Only errors marked with
// [Retryable] are retried; the wait doubles after each attempt unless the
// error carries a Retry-After, which is honored up to 30 seconds.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryBaseWait
	var lastErr error

	for i := range retryAttempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(lastErr, wait)):
				wait *= 2
			}
		}
	}
	return lastErr
}

// retryDelay returns the server-requested wait for rate-limited errors and
// fallback for everything else.
func retryDelay(err error, fallback time.Duration) time.Duration {
	var rl *apperrors.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return fallback
	}
	return min(time.Duration(rl.RetryAfter)*time.Second, maxRetryAfter)
}
