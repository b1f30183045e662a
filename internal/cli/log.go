// Package cli implements the chartsmith command-line interface.
//
// Commands read their charts from a TOML config file (see package config)
// and run them through the pipeline package.
//
// # Commands
//
//   - render: write every configured chart to the output directory
//   - stats: print per-category five-number summaries of a chart's data
//   - serve: serve rendered charts over HTTP
//   - browse: pick a chart interactively and render it
//   - config: write or show the configuration
//   - cache: clear the cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Pipeline
// events are logged through observability hooks installed per command.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a batch of charts.
type progress struct {
	logger *log.Logger
	total  int
	start  time.Time
}

func newProgress(l *log.Logger, total int) *progress {
	return &progress{logger: l, total: total, start: time.Now()}
}

// done logs the batch outcome. A batch with failures logs at warn level.
func (p *progress) done(failed int) {
	kv := []any{
		"ok", p.total - failed,
		"failed", failed,
		"took", time.Since(p.start).Round(time.Millisecond),
	}
	if failed > 0 {
		p.logger.Warn("Rendered charts", kv...)
		return
	}
	p.logger.Info("Rendered charts", kv...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
