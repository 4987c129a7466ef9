package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/tornado/pkg/httputil"
)

// ErrNetwork marks backend failures that may succeed on retry (timeouts,
// refused connections).
var ErrNetwork = errors.New("network error")

// RetryableError is the marker [RetryWithBackoff] retries on.
type RetryableError = httputil.RetryableError

// Retryable marks err as transient.
func Retryable(err error) error { return httputil.Transient(err) }

// IsRetryable reports whether err carries the transient marker.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval; it doubles per attempt.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff makes up to three attempts at a backend call.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, 3, retryDelay, fn)
}
