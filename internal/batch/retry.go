package batch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"stableScope/internal/storage"
)

// withRetry calls fn until it succeeds, fails permanently, or maxRetries
// retries are spent. The delay doubles after each failed attempt.
func withRetry(ctx context.Context, logger *zap.Logger, op string, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			logger.Warn(op+" failed permanently", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		if attempt > maxRetries {
			logger.Warn(op+" retries exhausted", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		logger.Warn(op+" failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !storage.IsPermanent(err)
}
