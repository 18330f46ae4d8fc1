package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/observability"
	"github.com/Sumatoshi-tech/contribviz/pkg/render"
	"github.com/Sumatoshi-tech/contribviz/pkg/report"
	"github.com/Sumatoshi-tech/contribviz/pkg/terminal"
)

const spanRender = "contribviz.render"

// runner invokes renderers strictly in order.
type runner struct {
	renderers []render.Renderer
	tracer    trace.Tracer
	metrics   *observability.RenderMetrics
	logger    *slog.Logger
	printer   *terminal.Printer
	// keepGoing attempts every renderer instead of stopping at the first failure.
	keepGoing bool
}

// run returns one result per attempted renderer.
func (r *runner) run(ctx context.Context, rec *metadata.Record, dir string) report.Results {
	results := make(report.Results, 0, len(r.renderers))

	for _, rd := range r.renderers {
		r.printer.Step(rd.Name())

		res := r.renderOne(ctx, rd, rec, dir)
		results = append(results, res)

		if !res.OK() {
			r.printer.Failure("Failed to generate %s: %v", rd.Name(), res.Err)

			if !r.keepGoing {
				break
			}
		}
	}

	return results
}

func (r *runner) renderOne(ctx context.Context, rd render.Renderer, rec *metadata.Record, dir string) report.Result {
	ctx, span := r.tracer.Start(ctx, spanRender, trace.WithAttributes(
		attribute.String("chart", rd.Name()),
		attribute.String("file", rd.Filename()),
	))
	defer span.End()

	start := time.Now()
	err := rd.Render(ctx, rec, dir)
	res := report.Result{
		Name:     rd.Name(),
		File:     rd.Filename(),
		Duration: time.Since(start),
		Err:      err,
	}

	status := observability.StatusOK

	if err != nil {
		status = observability.StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(ctx, "render failed", "chart", rd.Name(), "error", err)
	} else {
		info, statErr := os.Stat(filepath.Join(dir, rd.Filename()))
		if statErr == nil {
			res.Bytes = info.Size()
		}

		span.SetAttributes(attribute.Int64("bytes", res.Bytes))
		r.logger.DebugContext(ctx, "rendered", "chart", rd.Name(), "bytes", res.Bytes, "duration", res.Duration)
	}

	r.metrics.RecordRender(ctx, rd.Name(), status, res.Duration, res.Bytes)

	return res
}
