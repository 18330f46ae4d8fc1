package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRendersTotal   = "contribviz.renders.total"
	metricRenderDuration = "contribviz.render.duration.seconds"
	metricRenderErrors   = "contribviz.render.errors.total"
	metricOutputBytes    = "contribviz.output.bytes.total"

	attrChart  = "chart"
	attrStatus = "status"
)

// Render outcome statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Chart renders take from a few milliseconds at low DPI to tens of seconds at print resolution.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// RenderMetrics holds the instruments recorded once per chart.
type RenderMetrics struct {
	rendersTotal   metric.Int64Counter
	renderDuration metric.Float64Histogram
	renderErrors   metric.Int64Counter
	outputBytes    metric.Int64Counter
}

// NewRenderMetrics creates the render instruments from the given meter.
func NewRenderMetrics(mt metric.Meter) (*RenderMetrics, error) {
	total, err := mt.Int64Counter(metricRendersTotal,
		metric.WithDescription("Charts rendered"),
		metric.WithUnit("{chart}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRendersTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRenderDuration,
		metric.WithDescription("Chart render duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRenderDuration, err)
	}

	errs, err := mt.Int64Counter(metricRenderErrors,
		metric.WithDescription("Charts that failed to render"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRenderErrors, err)
	}

	written, err := mt.Int64Counter(metricOutputBytes,
		metric.WithDescription("Bytes of PNG output written"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOutputBytes, err)
	}

	return &RenderMetrics{
		rendersTotal:   total,
		renderDuration: duration,
		renderErrors:   errs,
		outputBytes:    written,
	}, nil
}

// RecordRender records one chart attempt. size is ignored for failed renders.
func (rm *RenderMetrics) RecordRender(ctx context.Context, chart, status string, duration time.Duration, size int64) {
	attrs := metric.WithAttributes(
		attribute.String(attrChart, chart),
		attribute.String(attrStatus, status),
	)

	rm.rendersTotal.Add(ctx, 1, attrs)
	rm.renderDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.renderErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrChart, chart)))

		return
	}

	rm.outputBytes.Add(ctx, size, metric.WithAttributes(attribute.String(attrChart, chart)))
}
