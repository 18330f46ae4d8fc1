package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrVersion = "version"
	attrMode    = "mode"
)

// RunInfo identifies one contribviz invocation in its log lines.
type RunInfo struct {
	Service string
	Version string
	Mode    AppMode
}

func (ri RunInfo) attrs() []slog.Attr {
	out := []slog.Attr{
		slog.String(attrService, ri.Service),
		slog.String(attrMode, string(ri.Mode)),
	}

	if ri.Version != "" {
		out = append(out, slog.String(attrVersion, ri.Version))
	}

	return out
}

// RunHandler stamps every log line with the run identity and, while a chart
// span is active, with its trace_id and span_id so a line can be matched to
// the render that produced it.
type RunHandler struct {
	next slog.Handler
}

// NewRunHandler wraps next. The run attributes sit outside any group added later.
func NewRunHandler(next slog.Handler, info RunInfo) *RunHandler {
	return &RunHandler{next: next.WithAttrs(info.attrs())}
}

// Enabled implements slog.Handler.
func (rh *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return rh.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (rh *RunHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := rh.next.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("write log record: %w", err)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (rh *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunHandler{next: rh.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (rh *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{next: rh.next.WithGroup(name)}
}
