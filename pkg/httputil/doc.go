// Package httputil fetches chart data published over HTTP.
//
// A [Fetcher] downloads a remote CSV, XLSX or JSON data file so the pipeline
// can treat an http(s) URL like a local path:
//
//	f := httputil.NewFetcher(httputil.WithCache(c, keyer.FetchKey, cache.TTLFetch))
//	body, err := f.Fetch(ctx, "https://example.com/sensitivity.csv")
//
// # Caching
//
// With [WithCache] response bodies are stored in a [Cache] (any pkg/cache
// backend) under a caller-chosen key, so repeated renders of the same URL
// skip the network until the entry expires.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff while it fails with
// a [RetryableError]. The Fetcher marks network errors, 429 and 5xx
// responses as retryable and honors a Retry-After header on them, bounded
// by [MaxDelay]; every other status fails immediately. The Redis
// cache backend retries transport failures through the same helper.
package httputil
