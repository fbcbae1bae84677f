// Package httputil provides retry helpers for HTTP clients.
//
// # Retry
//
// [Retry] runs an operation until it succeeds, fails with a permanent error,
// or runs out of attempts. Only errors wrapped in [RetryableError] are
// retried; the caller decides what is transient:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after every failed attempt. A 429 response can carry
// the server's own wait in [RetryableError].After, which replaces the delay
// for that attempt. No wait is longer than [MaxWait], and waiting stops as
// soon as the context is cancelled:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [RetryWithBackoff] uses 3 attempts and a 1 second initial delay.
package httputil
