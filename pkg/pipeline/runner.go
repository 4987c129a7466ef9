package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tornado/pkg/cache"
	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/httputil"
	"github.com/matzehuels/tornado/pkg/observability"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no results between calls. It shares one text measurer
// per measurer kind across calls, so multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	fetcher   *httputil.Fetcher
	mu        sync.Mutex
	measurers map[string]text.Measurer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c = cache.Instrument(c)
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		fetcher:   httputil.NewFetcher(httputil.WithCache(c, keyer.FetchKey, cache.TTLFetch)),
		measurers: make(map[string]text.Measurer),
	}
}

// Load reads opts.Input like [Load], caching http(s) downloads in the
// runner's cache.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataview.DataView, error) {
	return load(ctx, opts, r.fetcher)
}

// Execute loads opts.Input and runs the full pipeline on it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Input)
	dv, err := r.Load(ctx, opts)
	loadTime := time.Since(start)
	observability.Pipeline().OnLoadComplete(ctx, opts.Input, dv.Rows(), loadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	opts.Logger.Info("loaded data", "input", opts.Input, "rows", dv.Rows(), "series", len(dv.Values))

	result, err := r.ExecuteData(ctx, dv, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// ExecuteData runs the layout and render stages on an in-memory DataView.
func (r *Runner) ExecuteData(ctx context.Context, dv *dataview.DataView, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Data: dv, Stats: Stats{Rows: dv.Rows()}}

	layoutStart := time.Now()
	doc, dataHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, dv, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.DataHash = dataHash
	result.Stats.Columns = len(doc.Layout.Columns)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"columns", len(doc.Layout.Columns),
		"labels", doc.Layout.LabelsVisible,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout document for dv with caching. It
// also returns the data hash used in the cache key.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, dv *dataview.DataView, opts Options) (sink.Document, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return sink.Document{}, "", false, err
	}

	s, err := ResolveSettings(opts)
	if err != nil {
		return sink.Document{}, "", false, err
	}
	dataHash, err := cache.HashJSON(dv)
	if err != nil {
		return sink.Document{}, "", false, err
	}
	settingsHash, err := cache.HashJSON(s)
	if err != nil {
		return sink.Document{}, "", false, err
	}
	key := r.Keyer.LayoutKey(dataHash, opts.LayoutKeyOpts(settingsHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := sink.ParseJSON(data); err == nil {
				return doc, dataHash, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
	}

	ms, err := r.measurer(opts.Measurer)
	if err != nil {
		return sink.Document{}, "", false, err
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, dv.Rows(), len(dv.Values))
	doc := ComputeLayout(dv, s, ms, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := doc.Encode(); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		}
	}
	return doc, dataHash, false, nil
}

// Layout is a convenience wrapper that discards the hash and cache info.
func (r *Runner) Layout(ctx context.Context, dv *dataview.DataView, opts Options) (sink.Document, error) {
	doc, _, _, err := r.LayoutWithCacheInfo(ctx, dv, opts)
	return doc, err
}

// RenderWithCacheInfo renders every format with caching. The hit flag is
// true only when all formats came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc sink.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := doc.Encode()
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)
	rendered, err := Render(ctx, doc, sub)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc sink.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases the shared measurers and the cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	for name, ms := range r.measurers {
		if c, ok := ms.(io.Closer); ok {
			c.Close()
		}
		delete(r.measurers, name)
	}
	r.mu.Unlock()
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) measurer(name string) (text.Measurer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ms, ok := r.measurers[name]; ok {
		return ms, nil
	}
	ms, err := NewMeasurer(name)
	if err != nil {
		return nil, err
	}
	r.measurers[name] = ms
	return ms, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
