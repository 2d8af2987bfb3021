package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExecutor(maxAttempts int, base time.Duration) (*Executor, *[]time.Duration) {
	e := NewExecutor(maxAttempts, base, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var delays []time.Duration
	e.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return e, &delays
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	e, delays := testExecutor(5, time.Second)

	calls := 0
	err := e.Do(context.Background(), "order-1", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	e, delays := testExecutor(5, time.Second)

	calls := 0
	err := e.Do(context.Background(), "order-1", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("store unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "operation must be applied exactly once after transient failures")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
}

func TestDo_Exhausted(t *testing.T) {
	e, delays := testExecutor(5, time.Second)

	calls := 0
	lastErr := errors.New("store down")
	err := e.Do(context.Background(), "order-1", func(ctx context.Context) error {
		calls++
		return lastErr
	})

	require.Error(t, err)
	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, 5, ex.Attempts)
	assert.Equal(t, 5, calls)
	require.ErrorIs(t, err, lastErr)

	// backoff doubles between attempts: 1s, 2s, 4s, 8s
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
	}, *delays)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	e := NewExecutor(5, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := e.Do(ctx, "order-1", func(ctx context.Context) error {
		calls++
		return errors.New("nope")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNewExecutor_Defaults(t *testing.T) {
	e := NewExecutor(0, 0, nil)
	assert.Equal(t, DefaultMaxAttempts, e.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, e.BaseDelay)
}
