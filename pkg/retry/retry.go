// Package retry provides the reusable retry-with-backoff wrapper applied to
// every external data call made by the pipeline stages.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy defines the retry behavior: up to MaxAttempts tries with the delay
// doubling from BaseDelay each attempt, capped at MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches the pipeline contract: 3 attempts, 1s base, 30s cap.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// ExhaustedError wraps the last error after all attempts failed.
type ExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// IsExhausted reports whether err is a retry exhaustion
func IsExhausted(err error) bool {
	var ex *ExhaustedError
	return errors.As(err, &ex)
}

// Do runs fn until it succeeds, the policy is exhausted, or ctx is done.
func Do[T any](ctx context.Context, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := p.BaseDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Context cancellation is not retryable
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return zero, &ExhaustedError{Op: op, Attempts: p.MaxAttempts, Last: lastErr}
}
