package cache

import (
	"context"
	"errors"
	"time"
)

// Retry policy for repository fetches that miss the cache.
const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// RetryableError marks a fetch failure worth another attempt, such as a
// dropped connection or a 5xx from the repository.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or anything it wraps was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// with [Retryable], or runs out of attempts. The delay between attempts
// starts at one second and doubles.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return retry(ctx, retryAttempts, retryBaseDelay, fn)
}

func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}
