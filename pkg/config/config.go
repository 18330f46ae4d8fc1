// Package config provides layered configuration for contribviz.
//
// Values are resolved from built-in defaults, an optional YAML file,
// CONTRIBVIZ_* environment variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

// Sentinel validation errors.
var (
	ErrInvalidDPI       = errors.New("render dpi out of range")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrEmptyOutputDir   = errors.New("output directory must not be empty")
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CONTRIBVIZ"

// Default configuration values.
const (
	DefaultOutputDir    = "../visualizations"
	DefaultMetadataPath = "../metadata.json"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = LogFormatText
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Configuration keys.
const (
	KeyMetadata     = "metadata"
	KeyOutputDir    = "output_dir"
	KeyAnchor       = "anchor"
	KeyProfile      = "profile"
	KeyKeepGoing    = "keep_going"
	KeyNoColor      = "no_color"
	KeyDPI          = "render.dpi"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
	KeyOTLPEndpoint = "telemetry.otlp_endpoint"
	KeyOTLPInsecure = "telemetry.otlp_insecure"
	KeyMetricsFile  = "telemetry.metrics_file"
)

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"metadata":     KeyMetadata,
	"output-dir":   KeyOutputDir,
	"anchor":       KeyAnchor,
	"profile":      KeyProfile,
	"keep-going":   KeyKeepGoing,
	"no-color":     KeyNoColor,
	"dpi":          KeyDPI,
	"log-level":    KeyLogLevel,
	"log-format":   KeyLogFormat,
	"metrics-file": KeyMetricsFile,
}

// Config holds all configuration for a contribviz run.
type Config struct {
	// Metadata is the input document. Empty means DefaultMetadataPath under the anchor.
	Metadata  string `mapstructure:"metadata"`
	OutputDir string `mapstructure:"output_dir"`
	// Anchor is the directory relative paths are resolved against. Empty means
	// the directory of the running executable.
	Anchor    string          `mapstructure:"anchor"`
	Profile   string          `mapstructure:"profile"`
	KeepGoing bool            `mapstructure:"keep_going"`
	NoColor   bool            `mapstructure:"no_color"`
	Render    RenderConfig    `mapstructure:"render"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RenderConfig holds chart output settings.
type RenderConfig struct {
	DPI int `mapstructure:"dpi"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// SlogLevel returns the parsed logging level.
func (c LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Level))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// LoadConfig loads configuration from file, environment variables and the
// flags in fs that were set explicitly. fs may be nil.
func LoadConfig(configPath string, fs *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("contribviz")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	bindErr := bindFlags(viperCfg, fs)
	if bindErr != nil {
		return nil, bindErr
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func bindFlags(viperCfg *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	for name, key := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}

		err := viperCfg.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault(KeyMetadata, "")
	viperCfg.SetDefault(KeyOutputDir, DefaultOutputDir)
	viperCfg.SetDefault(KeyAnchor, "")
	viperCfg.SetDefault(KeyProfile, "")
	viperCfg.SetDefault(KeyKeepGoing, false)
	viperCfg.SetDefault(KeyNoColor, false)

	viperCfg.SetDefault(KeyDPI, style.DefaultDPI)

	viperCfg.SetDefault(KeyLogLevel, DefaultLogLevel)
	viperCfg.SetDefault(KeyLogFormat, DefaultLogFormat)

	viperCfg.SetDefault(KeyOTLPEndpoint, "")
	viperCfg.SetDefault(KeyOTLPInsecure, false)
	viperCfg.SetDefault(KeyMetricsFile, "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Render.DPI < style.MinDPI || config.Render.DPI > style.MaxDPI {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidDPI, config.Render.DPI, style.MinDPI, style.MaxDPI)
	}

	if strings.TrimSpace(config.OutputDir) == "" {
		return ErrEmptyOutputDir
	}

	var level slog.Level

	levelErr := level.UnmarshalText([]byte(config.Logging.Level))
	if levelErr != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
