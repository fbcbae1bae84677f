package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxWait caps a single wait between attempts, including waits asked for
// by the server.
const MaxWait = 30 * time.Second

// RetryableError marks a transient failure. After, when set, is how long
// the server asked the client to wait (a 429 Retry-After header) and takes
// the place of the backoff delay for that attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has been called attempts times. The backoff starts
// at delay and doubles, never waiting longer than [MaxWait]. The
// RetryableError wrapper is removed from the error returned after the last
// attempt, so callers see the underlying cause.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	for i := 1; ; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts {
			return re.Err
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		t := time.NewTimer(min(wait, MaxWait))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// RetryWithBackoff is [Retry] with 3 attempts and a 1 second initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
