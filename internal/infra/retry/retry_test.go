package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = Options{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(&APIError{StatusCode: 400}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 429}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 503}))
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		if calls < 3 {
			return &APIError{StatusCode: 502}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		return &APIError{StatusCode: 400, Message: "bad request"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "api error (400): bad request", err.Error())
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		return &APIError{StatusCode: 429, RetryAfter: time.Millisecond}
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fast, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestFullJitterSleep(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := FullJitterSleep(attempt, 10*time.Millisecond, 50*time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 50*time.Millisecond)
	}
	assert.Zero(t, FullJitterSleep(3, 0, time.Second))
}
