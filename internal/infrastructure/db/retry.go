// Package db carries helpers shared by the persistence adapters.
package db

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"
)

const (
	maxAttempts = 3
	baseDelay   = 100 * time.Millisecond
)

// IsConnError reports whether err is a connection-class failure. Only these
// are worth retrying; everything else (validation, not-found, decode
// errors) propagates immediately.
func IsConnError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// WithConnRetry runs op up to three times, with a linearly increasing delay
// between attempts, retrying only connection-class failures. Cancellation
// of ctx wins over any pending delay.
func WithConnRetry(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsConnError(err) || attempt == maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(baseDelay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
