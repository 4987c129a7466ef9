// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; binaries decide what
// receives them. Until a hook is registered every accessor returns a no-op:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetChartHooks(hooks)
//
// Emitting an event:
//
//	observability.Pipeline().OnLayoutStart(ctx, dv.Rows(), len(dv.Values))
//	observability.Charts().OnSelectionChanged(ctx, id, v.Selection().String())
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Load events (data file, URL or request body to DataView)
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, rows int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, categories, series int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache traffic per key namespace (layout, artifact,
// session, fetch).
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records an incoming request before routing.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the written status and handler latency. route is
	// the matched route pattern.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// ChartHooks receives the lifecycle of server-side chart sessions.
type ChartHooks interface {
	OnChartCreated(ctx context.Context, id string, rows int)
	// state is the selection after the click, e.g. "Selected(3)".
	OnSelectionChanged(ctx context.Context, id, state string)
	OnChartDeleted(ctx context.Context, id string)
}

// NoopPipelineHooks ignores pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)            {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks ignores cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores request events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// NoopChartHooks ignores chart session events.
type NoopChartHooks struct{}

func (NoopChartHooks) OnChartCreated(context.Context, string, int)        {}
func (NoopChartHooks) OnSelectionChanged(context.Context, string, string) {}
func (NoopChartHooks) OnChartDeleted(context.Context, string)             {}

// slot holds one registered hook; an empty slot yields noop.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

// set ignores a nil interface so a missing hook never replaces a real one.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.p.Store(&h)
}

var (
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	serverSlot   = slot[ServerHooks]{noop: NoopServerHooks{}}
	chartSlot    = slot[ChartHooks]{noop: NoopChartHooks{}}
)

// SetPipelineHooks registers h for pipeline events. Call it at startup.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks registers h for cache events.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetServerHooks registers h for request events.
func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

// SetChartHooks registers h for chart session events.
func SetChartHooks(h ChartHooks) { chartSlot.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Server returns the registered server hooks.
func Server() ServerHooks { return serverSlot.get() }

// Charts returns the registered chart session hooks.
func Charts() ChartHooks { return chartSlot.get() }

// Reset restores every hook to its no-op.
func Reset() {
	pipelineSlot.p.Store(nil)
	cacheSlot.p.Store(nil)
	serverSlot.p.Store(nil)
	chartSlot.p.Store(nil)
}
