// Package commands implements the contribviz subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/contribviz/pkg/config"
	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/observability"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/render"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
	"github.com/Sumatoshi-tech/contribviz/pkg/terminal"
	"github.com/Sumatoshi-tech/contribviz/pkg/version"
)

const (
	generateCmdUse   = "generate"
	generateCmdShort = "Render the contribution charts as PNG files"
	spanGenerate     = "contribviz.generate"
)

// ErrLoadMetadata is returned when the metadata document cannot be loaded.
var ErrLoadMetadata = errors.New("load metadata")

// NewGenerateCommand creates the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   generateCmdUse,
		Short: generateCmdShort,
		Long: `Render the six contribution charts from metadata.json.

Relative output directories are resolved against the anchor directory, which
defaults to the directory holding the contribviz executable. The metadata file
defaults to <anchor>/../metadata.json.

Examples:
  contribviz generate
  contribviz generate --output-dir /tmp/charts
  contribviz generate --metadata ./metadata.json --keep-going --dpi 150
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			return runGenerate(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default ./contribviz.yaml)")
	flags.String("output-dir", config.DefaultOutputDir, "directory to save visualization images")
	flags.String("metadata", "", "metadata file (default <anchor>/../metadata.json)")
	flags.String("anchor", "", "directory relative paths are resolved against (default: executable dir)")
	flags.String("profile", "", "YAML file replacing the built-in labels, milestones, weights and skills")
	flags.Bool("keep-going", false, "render every chart even after a failure and print a summary table")
	flags.Int("dpi", style.DefaultDPI, "output resolution")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")

	return cmd
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode, logOut io.Writer) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON
	obsCfg.LogWriter = logOut

	return obsCfg
}

func runGenerate(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	providers, err := observability.Init(observabilityConfig(cfg, observability.ModeGenerate, stderr))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown", "error", shutdownErr)
		}
	}()

	ctx, span := providers.Tracer.Start(ctx, spanGenerate)
	defer span.End()

	printer := terminal.NewPrinter(stdout, cfg.NoColor)

	paths, err := ResolvePaths(cfg)
	if err != nil {
		return err
	}

	prof, err := profile.Load(paths.Profile)
	if err != nil {
		return err
	}

	st := style.Default().WithDPI(cfg.Render.DPI)

	styleErr := st.Validate()
	if styleErr != nil {
		return styleErr
	}

	printer.Info("Loading metadata from: %s", paths.Metadata)

	rec, err := metadata.Load(paths.Metadata)
	if err != nil {
		printer.Failure("Error loading metadata file: %v", err)

		return fmt.Errorf("%w: %w", ErrLoadMetadata, err)
	}

	printer.Info("Generating visualizations in: %s", paths.OutputDir)

	created, err := render.EnsureDir(paths.OutputDir)
	if err != nil {
		return err
	}

	if created {
		printer.Info("Created output directory: %s", paths.OutputDir)
	}

	metrics, err := observability.NewRenderMetrics(providers.Meter)
	if err != nil {
		return err
	}

	r := &runner{
		renderers: render.All(st, prof),
		tracer:    providers.Tracer,
		metrics:   metrics,
		logger:    providers.Logger,
		printer:   printer,
		keepGoing: cfg.KeepGoing,
	}

	results := r.run(ctx, rec, paths.OutputDir)

	if cfg.KeepGoing {
		results.WriteTable(stdout)
	}

	runErr := results.Err()
	if runErr != nil {
		return runErr
	}

	printer.Success("All visualizations generated successfully in %s", paths.OutputDir)

	return nil
}
