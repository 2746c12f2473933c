package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug-level log line. It implements
// PipelineHooks, CacheHooks and HTTPHooks, so one value can be registered for
// all three.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, format string, size int) {
	h.logger.Debug("loading document", "format", format, "bytes", size)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, format string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("document loaded", "format", format, "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnSortStart(_ context.Context, mode string, nodes int) {
	h.logger.Debug("sorting", "mode", mode, "nodes", nodes)
}

func (h *LogHooks) OnSortComplete(_ context.Context, mode string, cycles int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sort failed", "mode", mode, "cycles", cycles, "err", err)
		return
	}
	h.logger.Debug("sorted", "mode", mode, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("rendered", "format", format, "took", d.Round(time.Millisecond), "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
