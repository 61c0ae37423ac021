package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 1000 * time.Millisecond
	defaultMaxDelay     = time.Minute
)

// ErrRetriesExhausted is matched by every error Execute returns.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Policy controls how often and how patiently an operation is retried.
// The delay before retry n is InitialDelay * 2^(n-1).
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Notify is called before every wait with the attempt that just failed.
	Notify func(attempt int, err error, next time.Duration)
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
	}
}

// RetriesExhaustedError wraps the last failure of an operation.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Err}
}

// Execute invokes op until it succeeds, a permanent error is returned,
// the context ends, or 1+MaxRetries attempts have been made.
func Execute[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	maxDelay := policy.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     policy.InitialDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxDelay,
	}

	attempts := 0
	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(maxRetries + 1)),
		backoff.WithMaxElapsedTime(0),
	}
	if policy.Notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			policy.Notify(attempts, err, next)
		}))
	}

	res, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		return op(ctx)
	}, opts...)
	if err != nil {
		var zero T
		return zero, &RetriesExhaustedError{Attempts: attempts, Err: err}
	}
	return res, nil
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

type retryAfterError struct {
	err   error
	after *backoff.RetryAfterError
}

func (e *retryAfterError) Error() string {
	return fmt.Sprintf("%v (retry after %s)", e.err, e.after.Duration)
}

func (e *retryAfterError) Unwrap() []error {
	return []error{e.err, e.after}
}

// After asks the executor to wait d before the next attempt instead of the
// computed backoff delay.
func After(d time.Duration, err error) error {
	if err == nil {
		return nil
	}
	return &retryAfterError{err: err, after: &backoff.RetryAfterError{Duration: d}}
}

// FromStatus classifies a failed HTTP exchange. 429 honours Retry-After,
// client errors are permanent, everything else stays retryable.
func FromStatus(status int, retryAfter string, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		if secs, convErr := strconv.Atoi(strings.TrimSpace(retryAfter)); convErr == nil && secs > 0 {
			return After(time.Duration(secs)*time.Second, err)
		}
		return err
	case status == http.StatusRequestTimeout:
		return err
	case status >= 400 && status < 500:
		return Permanent(err)
	default:
		return err
	}
}
