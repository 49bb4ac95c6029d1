// Package main provides the hydroeval command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hydroeval/hydroeval/cmd/tools/hydroeval/commands"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hydroeval",
		Short: "Evaluate predicted time series against observations",
		Long: `hydroeval computes error metrics for predicted/target series pairs.

Commands:
  batch     Evaluate every series of a manifest
  compare   Rank the series of a manifest per metric`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewBatchCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hydroeval %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
}
