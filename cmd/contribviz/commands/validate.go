package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/contribviz/pkg/config"
	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/observability"
	"github.com/Sumatoshi-tech/contribviz/pkg/terminal"
)

// ErrInvalidMetadata is returned when the document violates the schema.
var ErrInvalidMetadata = errors.New("metadata validation failed")

const spanValidate = "contribviz.validate"

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	var (
		configPath  string
		printSchema bool
	)

	cmd := &cobra.Command{
		Use:   "validate [metadata.json]",
		Short: "Check a metadata file against the embedded schema",
		Long: `Check a metadata file against the embedded JSON schema and print every violation.

Without an argument the default metadata location is checked.

Examples:
  contribviz validate
  contribviz validate ./metadata.json
  contribviz validate --print-schema > metadata.schema.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(metadata.Schema())

				return err
			}

			cfg, err := config.LoadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				cfg.Metadata = args[0]
			}

			return runValidateCommand(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default ./contribviz.yaml)")
	flags.BoolVar(&printSchema, "print-schema", false, "print the embedded JSON schema and exit")
	flags.String("anchor", "", "directory the default metadata path is resolved against")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")

	return cmd
}

func runValidateCommand(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	providers, err := observability.Init(observabilityConfig(cfg, observability.ModeValidate, stderr))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown", "error", shutdownErr)
		}
	}()

	ctx, span := providers.Tracer.Start(ctx, spanValidate)
	defer span.End()

	paths, err := ResolvePaths(cfg)
	if err != nil {
		return err
	}

	err = runValidate(terminal.NewPrinter(stdout, cfg.NoColor), paths.Metadata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		providers.Logger.DebugContext(ctx, "metadata rejected", "path", paths.Metadata, "error", err)

		return err
	}

	providers.Logger.DebugContext(ctx, "metadata accepted", "path", paths.Metadata)

	return nil
}

func runValidate(printer *terminal.Printer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}

	violations, err := metadata.Validate(data)
	if err != nil {
		printer.Failure("Invalid JSON in %s: %v", path, err)

		return err
	}

	if len(violations) == 0 {
		_, err = metadata.Parse(data)
	}

	if len(violations) == 0 && err == nil {
		printer.Success("Metadata is valid (%s)", path)

		return nil
	}

	printer.Failure("Metadata validation failed (%s)", path)

	for _, v := range violations {
		printer.Warn("  - %s", v)
	}

	if err != nil {
		printer.Warn("  - %v", err)
	}

	return fmt.Errorf("%w: %s", ErrInvalidMetadata, path)
}
