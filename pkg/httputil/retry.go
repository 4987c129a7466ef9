package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// MaxDelay caps the wait between two attempts of [Retry], including waits
// requested by a server through Retry-After.
const MaxDelay = 30 * time.Second

// RetryableError marks a transient failure. After, when positive, is the
// minimum wait before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Transient wraps err as a [RetryableError]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or attempts calls have been made. The wait starts at
// delay and doubles after each failure, bounded by [MaxDelay].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || n >= attempts {
			return err
		}

		wait := min(max(delay, re.After), MaxDelay)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, MaxDelay)
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Missing or malformed values yield zero.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
