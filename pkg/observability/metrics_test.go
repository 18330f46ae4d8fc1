package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/contribviz/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.RenderMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rm, err := observability.NewRenderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return rm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestRenderMetrics_RecordSuccess(t *testing.T) {
	t.Parallel()

	rm, reader := setupTestMeter(t)
	ctx := context.Background()

	rm.RecordRender(ctx, "contribution heatmap", observability.StatusOK, 150*time.Millisecond, 2048)
	rm.RecordRender(ctx, "skill radar chart", observability.StatusOK, 50*time.Millisecond, 1024)

	data := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumOf(t, findMetric(data, "contribviz.renders.total")))
	assert.Equal(t, int64(3072), sumOf(t, findMetric(data, "contribviz.output.bytes.total")))
	assert.NotNil(t, findMetric(data, "contribviz.render.duration.seconds"))
	assert.Nil(t, findMetric(data, "contribviz.render.errors.total"))
}

func TestRenderMetrics_RecordError(t *testing.T) {
	t.Parallel()

	rm, reader := setupTestMeter(t)

	rm.RecordRender(context.Background(), "contribution timeline", observability.StatusError, time.Millisecond, 999)

	data := collectMetrics(t, reader)

	assert.Equal(t, int64(1), sumOf(t, findMetric(data, "contribviz.render.errors.total")))
	assert.Nil(t, findMetric(data, "contribviz.output.bytes.total"))
}

func TestTextfileExporter_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metrics.prom")

	te, err := observability.NewTextfileExporter(path)
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(te.Reader()))

	rm, err := observability.NewRenderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	rm.RecordRender(context.Background(), "language usage bar chart", observability.StatusOK, time.Millisecond, 10)

	require.NoError(t, te.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "# TYPE")
	assert.Contains(t, string(data), `chart="language usage bar chart"`)
}

func TestTextfileExporter_BadPath(t *testing.T) {
	t.Parallel()

	te, err := observability.NewTextfileExporter(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	require.NoError(t, err)

	require.Error(t, te.Write())
}
