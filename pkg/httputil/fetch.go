package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/tornado/pkg/errors"
)

// Defaults for [NewFetcher].
const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultMaxSize  = 32 << 20
)

// Cache is the subset of a cache backend the Fetcher stores bodies in.
// Every pkg/cache backend satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Fetcher downloads remote data files.
type Fetcher struct {
	client   *http.Client
	cache    Cache
	key      func(url string) string
	ttl      time.Duration
	attempts int
	delay    time.Duration
	maxSize  int64
}

// FetchOption configures a [Fetcher].
type FetchOption func(*Fetcher)

// WithClient sets the HTTP client. The default has a [DefaultTimeout].
func WithClient(c *http.Client) FetchOption {
	return func(f *Fetcher) { f.client = c }
}

// WithCache stores response bodies in c for ttl under key(url). A nil key
// func uses "fetch:" + url.
func WithCache(c Cache, key func(url string) string, ttl time.Duration) FetchOption {
	return func(f *Fetcher) {
		f.cache = c
		f.key = key
		f.ttl = ttl
	}
}

// WithRetry sets the attempt count and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) FetchOption {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.delay = delay
	}
}

// WithMaxSize limits the accepted body size in bytes.
func WithMaxSize(n int64) FetchOption {
	return func(f *Fetcher) { f.maxSize = n }
}

// NewFetcher returns a Fetcher without caching.
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		maxSize:  DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.key == nil {
		f.key = func(u string) string { return "fetch:" + u }
	}
	return f
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the body at rawURL. Cached bodies are returned without a
// request; cache failures fall through to the network.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not an http(s) url: %q", rawURL)
	}
	key := f.key(rawURL)
	if f.cache != nil {
		if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
			return data, nil
		}
	}

	var body []byte
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		_ = f.cache.Set(ctx, key, body, f.ttl)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Transient(errors.Wrap(errors.ErrCodeInternal, err, "fetch %s", redact(rawURL)))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "fetch %s: %s", redact(rawURL), resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{
			Err:   errors.New(errors.ErrCodeInternal, "fetch %s: %s", redact(rawURL), resp.Status),
			After: retryAfter(resp.Header, time.Now()),
		}
	case resp.StatusCode >= 300:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", redact(rawURL), resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, Transient(errors.Wrap(errors.ErrCodeInternal, err, "read %s", redact(rawURL)))
	}
	if int64(len(data)) > f.maxSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: body exceeds %d bytes", redact(rawURL), f.maxSize)
	}
	return data, nil
}

// redact drops credentials and the query string from u for error messages.
func redact(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	parsed.User = nil
	parsed.RawQuery = ""
	return strings.TrimSuffix(parsed.String(), "?")
}
