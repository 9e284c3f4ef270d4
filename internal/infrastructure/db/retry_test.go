package db

import (
	"context"
	"errors"
	"syscall"
	"testing"
)

func TestWithConnRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithConnRetry(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return syscall.ECONNREFUSED
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithConnRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := WithConnRetry(context.Background(), func(context.Context) error {
		attempts++
		return syscall.ECONNRESET
	})
	if !errors.Is(err, syscall.ECONNRESET) {
		t.Fatalf("got %v, want ECONNRESET", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithConnRetry_NonConnErrorsPropagateImmediately(t *testing.T) {
	permanent := errors.New("document validation failed")
	attempts := 0
	err := WithConnRetry(context.Background(), func(context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v, want the permanent error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry)", attempts)
	}
}

func TestWithConnRetry_CancelledContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithConnRetry(ctx, func(context.Context) error {
		t.Fatal("op must not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestIsConnError(t *testing.T) {
	if !IsConnError(syscall.EPIPE) {
		t.Error("EPIPE must classify as connection error")
	}
	if IsConnError(errors.New("duplicate key")) {
		t.Error("arbitrary errors must not classify as connection errors")
	}
}
