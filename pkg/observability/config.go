// Package observability provides OpenTelemetry tracing, render metrics and
// structured logging for contribviz commands.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies the command being run.
type AppMode string

const (
	// ModeGenerate renders the chart set.
	ModeGenerate AppMode = "generate"
	// ModeValidate checks a metadata file without rendering.
	ModeValidate AppMode = "validate"
)

const (
	defaultServiceName        = "contribviz"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string
	OTLPInsecure bool

	// SampleRatio is the trace sampling ratio. Zero samples every root span.
	SampleRatio float64

	// MetricsFile receives a Prometheus text exposition of the run's metrics
	// on shutdown. Empty disables it.
	MetricsFile string

	LogLevel slog.Level
	LogJSON  bool
	// LogWriter defaults to os.Stderr.
	LogWriter io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeGenerate,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
