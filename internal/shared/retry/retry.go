package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// ExhaustedError is returned after every attempt failed.
type ExhaustedError struct {
	Label    string
	Attempts int
	Err      error // last attempt's error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts (%s): %v", e.Attempts, e.Label, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Executor runs an operation with bounded retries and exponential backoff.
// Delay for attempt n (zero-based) is BaseDelay<<n. The backoff sleep is
// context-aware so it suspends only the calling request.
type Executor struct {
	MaxAttempts int
	BaseDelay   time.Duration

	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewExecutor(maxAttempts int, baseDelay time.Duration, logger *slog.Logger) *Executor {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

// Do runs op until it succeeds or MaxAttempts is reached. label identifies the
// operation in logs (e.g. the order id being updated).
func (e *Executor) Do(ctx context.Context, label string, op func(ctx context.Context) error) error {
	delay := e.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				e.logger.InfoContext(ctx, "retry succeeded", "label", label, "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if attempt == e.MaxAttempts {
			break
		}

		e.logger.WarnContext(ctx, "attempt failed, backing off",
			"label", label, "attempt", attempt, "delay", delay, "err", err)

		if serr := e.sleep(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
	}

	e.logger.ErrorContext(ctx, "retry exhausted",
		"label", label, "attempts", e.MaxAttempts, "err", lastErr)
	return &ExhaustedError{Label: label, Attempts: e.MaxAttempts, Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
