package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	unavailable := errors.New("unavailable")
	transient := &RetryableError{Err: unavailable}
	permanent := errors.New("bad request")

	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", 3, []error{nil}, 1, nil},
		{"success after retries", 3, []error{transient, transient, nil}, 3, nil},
		{"permanent stops", 3, []error{permanent}, 1, permanent},
		{"exhausted", 2, []error{transient, transient}, 2, unavailable},
		{"zero attempts runs once", 0, []error{transient}, 1, unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Microsecond, func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("unavailable")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	var err error = &RetryableError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
}

func TestRetryUnwrapsLastError(t *testing.T) {
	err := Retry(context.Background(), 2, time.Microsecond, func() error {
		return &RetryableError{Err: errors.New("unavailable")}
	})
	var re *RetryableError
	if errors.As(err, &re) {
		t.Errorf("err = %#v, want the cause without the RetryableError wrapper", err)
	}
}

func TestRetryHonorsAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), 2, time.Hour, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("slow down"), After: time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d > time.Minute {
		t.Errorf("waited %v; After should replace the one hour backoff", d)
	}
}
