// Package logging installs the process-wide slog logger.
//
// The logger is installed at most once per process. The first Init call
// wins: its verbosity applies for the life of the process and later calls,
// whatever their configuration, change nothing.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/bwt-dev/libbwt-go/pkg/config"
)

var defaultInitializer = &initializer{
	output:     os.Stderr,
	setDefault: slog.SetDefault,
}

// Init installs the logger described by cfg unless a previous call already
// did. It reports whether this call was the first one. With setup_logger set
// to false the host's logger is kept, but the first call is still consumed.
func Init(cfg *config.Config) bool {
	return defaultInitializer.init(cfg)
}

type initializer struct {
	once       sync.Once
	output     io.Writer
	setDefault func(*slog.Logger)
}

func (i *initializer) init(cfg *config.Config) bool {
	first := false
	i.once.Do(func() {
		first = true
		if !cfg.ShouldSetupLogger() {
			return
		}
		logger := slog.New(NewHandler(i.output, cfg.Verbose))
		i.setDefault(logger)
		logger.Debug("Logger initialized", "verbose", cfg.Verbose)
	})
	return first
}

// Level maps the verbose setting to a slog level
func Level(verbose int) slog.Level {
	if verbose >= 1 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewHandler returns a JSON handler writing to w with trace correlation.
// Verbosity 2 and above also records source locations.
func NewHandler(w io.Writer, verbose int) slog.Handler {
	return &TraceHandler{Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     Level(verbose),
		AddSource: verbose >= 2,
	})}
}

// TraceHandler wraps an slog.Handler to inject the OpenTelemetry trace_id and
// span_id of the record's context.
type TraceHandler struct {
	slog.Handler
}

// Handle implements slog.Handler
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
