package retry

// Retry with exponential backoff and full jitter.
// Only *APIError values with status 429 or 5xx are retried; a 429 carrying
// RetryAfter waits that long instead of the jittered delay.

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// APIError is a failed remote call with its status code.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error: <nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ae *APIError
	if errors.As(err, &ae) {
		switch ae.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}

func clamp(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	return d
}

func FullJitterSleep(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if baseDelay <= 0 {
		return 0
	}
	maxForAttempt := clamp(baseDelay<<attempt, maxDelay)
	if maxForAttempt <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(maxForAttempt) + 1))
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done.
func Do(ctx context.Context, opts Options, fn func() error) error {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 300 * time.Millisecond
	}

	totalAttempts := 1 + opts.MaxRetries
	var lastErr error

	for attempt := 0; attempt < totalAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == totalAttempts-1 {
			return lastErr
		}

		sleep := FullJitterSleep(attempt, opts.BaseDelay, opts.MaxDelay)

		var ae *APIError
		if errors.As(err, &ae) && ae.StatusCode == 429 && ae.RetryAfter > 0 {
			sleep = clamp(ae.RetryAfter, opts.MaxDelay)
		}

		t := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return lastErr
}
