package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/observability"
)

// logHooks writes pipeline, cache and HTTP events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)

// installHooks routes observability events to the CLI logger.
func (c *CLI) installHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLoadStart(ctx context.Context, chart, uri string) {
	h.logger.Debug("Loading data", "chart", chart, "source", uri)
}

func (h logHooks) OnLoadComplete(ctx context.Context, chart, uri string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Load failed", "chart", chart, "source", uri, "err", err)
		return
	}
	h.logger.Debug("Loaded data", "chart", chart, "rows", rows, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnBuildStart(ctx context.Context, chart, kind string) {
	h.logger.Debug("Building scene", "chart", chart, "kind", kind)
}

func (h logHooks) OnBuildComplete(ctx context.Context, chart, kind string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Build failed", "chart", chart, "err", err)
		return
	}
	h.logger.Debug("Built scene", "chart", chart, "nodes", nodes, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRenderStart(ctx context.Context, chart string, formats []string) {
	h.logger.Debug("Rendering", "chart", chart, "formats", strings.Join(formats, ","))
}

func (h logHooks) OnRenderComplete(ctx context.Context, chart string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Render failed", "chart", chart, "err", err)
		return
	}
	h.logger.Debug("Rendered", "chart", chart, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("Cache hit", "key", keyType)
}

func (h logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("Cache miss", "key", keyType)
}

func (h logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("Cache set", "key", keyType, "bytes", size)
}

func (h logHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("HTTP request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("HTTP response", "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Debug("HTTP error", "host", host, "path", path, "err", err)
}
