package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load started", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("load complete", "source", source, "rows", rows, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, categories, series int) {
	h.logger.Debug("layout started", "categories", categories, "series", series)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "err", err)
		return
	}
	h.logger.Debug("layout complete", "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) OnChartCreated(_ context.Context, id string, rows int) {
	h.logger.Info("chart created", "id", id, "rows", rows)
}

func (h *LogHooks) OnSelectionChanged(_ context.Context, id, state string) {
	h.logger.Debug("selection", "id", id, "state", state)
}

func (h *LogHooks) OnChartDeleted(_ context.Context, id string) {
	h.logger.Info("chart deleted", "id", id)
}

var (
	_ ChartHooks    = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
