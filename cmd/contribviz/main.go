// Package main provides the entry point for the contribviz CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/contribviz/cmd/contribviz/commands"
	"github.com/Sumatoshi-tech/contribviz/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contribviz",
		Short: "Render open source contribution statistics as static charts",
		Long: `contribviz turns the statistics block of a metadata.json file into a fixed
set of PNG charts: a year/domain heatmap, a yearly timeline, domain and
project-scale pies, a language bar chart and a skill radar.

Commands:
  generate  Render all charts
  validate  Check a metadata file against the schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
