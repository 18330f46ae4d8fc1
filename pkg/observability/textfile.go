package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TextfileExporter collects OTel metrics into a private Prometheus registry
// and writes them in text exposition format, the way a node_exporter textfile
// collector expects from a batch job.
type TextfileExporter struct {
	path     string
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewTextfileExporter creates an exporter that writes to path.
func NewTextfileExporter(path string) (*TextfileExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &TextfileExporter{path: path, registry: registry, reader: exporter}, nil
}

// Reader is the metric reader to attach to a MeterProvider.
func (te *TextfileExporter) Reader() sdkmetric.Reader {
	return te.reader
}

// Write gathers the current metric values and atomically replaces the file.
func (te *TextfileExporter) Write() error {
	err := prometheus.WriteToTextfile(te.path, te.registry)
	if err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
