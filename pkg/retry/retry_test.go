package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky upstream")

func fastPolicy(maxRetries int) Policy {
	return Policy{MaxRetries: maxRetries, InitialDelay: time.Millisecond}
}

func TestExecute_SucceedsAfterTwoFailures(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errFlaky
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestExecute_AlwaysFailing(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), fastPolicy(3), func(ctx context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, errFlaky)

	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
}

func TestExecute_ZeroRetries(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), fastPolicy(0), func(ctx context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
}

func TestExecute_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(errFlaky)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, errFlaky)
}

func TestExecute_DelaysDouble(t *testing.T) {
	var waits []time.Duration
	policy := Policy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		Notify: func(attempt int, err error, next time.Duration) {
			waits = append(waits, next)
		},
	}

	_, _ = Execute(context.Background(), policy, func(ctx context.Context) (int, error) {
		return 0, errFlaky
	})

	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, waits)
}

func TestExecute_NotifyReportsAttempt(t *testing.T) {
	var attempts []int
	policy := fastPolicy(2)
	policy.Notify = func(attempt int, err error, next time.Duration) {
		attempts = append(attempts, attempt)
	}

	_, _ = Execute(context.Background(), policy, func(ctx context.Context) (int, error) {
		return 0, errFlaky
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestExecute_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{MaxRetries: 3, InitialDelay: time.Hour}

	_, err := Execute(ctx, policy, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, errFlaky
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_RetryAfterOverridesDelay(t *testing.T) {
	var waits []time.Duration
	policy := Policy{
		MaxRetries:   1,
		InitialDelay: time.Millisecond,
		Notify: func(attempt int, err error, next time.Duration) {
			waits = append(waits, next)
		},
	}

	calls := 0
	got, err := Execute(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", After(3*time.Millisecond, errFlaky)
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, []time.Duration{3 * time.Millisecond}, waits)
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		retryAfter    string
		wantPermanent bool
		wantAfter     bool
	}{
		{name: "rate limited with header", status: http.StatusTooManyRequests, retryAfter: "1", wantAfter: true},
		{name: "rate limited without header", status: http.StatusTooManyRequests},
		{name: "bad request", status: http.StatusBadRequest, wantPermanent: true},
		{name: "unauthorized", status: http.StatusUnauthorized, wantPermanent: true},
		{name: "request timeout", status: http.StatusRequestTimeout},
		{name: "server error", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, tt.retryAfter, errFlaky)
			assert.ErrorIs(t, err, errFlaky)

			calls := 0
			_, _ = Execute(context.Background(), fastPolicy(1), func(ctx context.Context) (int, error) {
				calls++
				return 0, err
			})
			if tt.wantPermanent {
				assert.Equal(t, 1, calls)
			} else {
				assert.Equal(t, 2, calls)
			}

			var ra *retryAfterError
			assert.Equal(t, tt.wantAfter, errors.As(err, &ra))
		})
	}
}
