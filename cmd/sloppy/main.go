// Package main provides the entry point for the sloppy CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sloppy/cmd/sloppy/commands"
	"github.com/Sumatoshi-tech/sloppy/internal/version"
)

// exitFindings signals that the scan itself succeeded but findings at or
// above the requested severity were present.
const exitFindings = 2

func main() {
	rootCmd := &cobra.Command{
		Use:   "sloppy",
		Short: "Sloppy - anti-pattern detection and scoring",
		Long: `Sloppy scans source files for anti-patterns and scores the damage.

Commands:
  scan      Scan files or directories and report findings
  patterns  List the built-in pattern catalog`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewPatternsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, commands.ErrSeverityGate) {
			os.Exit(exitFindings)
		}

		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sloppy %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
