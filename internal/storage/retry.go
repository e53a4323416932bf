package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"kinobot/core/logger"
	"log/slog"
)

const (
	writeAttempts = 3
	writeBackoff  = 500 * time.Millisecond
)

func retryableDBError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// withRetry runs fn with a short bounded retry for transient connection errors.
// Business errors (constraint violations, not-found) are returned immediately.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryableDBError(lastErr) || attempt == writeAttempts {
			break
		}

		delay := writeBackoff * time.Duration(attempt)
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelDebug, "storage.retry",
			slog.String("op", op),
			slog.Int("attempts", attempt),
			slog.Int64("backoff_ms", delay.Milliseconds()),
			slog.String("err", lastErr.Error()),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
