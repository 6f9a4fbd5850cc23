package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
)

var (
	verbose    bool
	configPath string
	dataPath   string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempoclerk",
	Short: "Turn activity logs into reviewed, billable timesheet entries",
	Long: `tempoclerk derives billable timesheet entries from activity logs recorded
by a capture daemon, assigns each entry to a task with configured and learned
patterns, and lets you review and correct the result before export.

Corrections teach the matcher: repeat the same correction often enough and
future blocks with that (app, title) shape resolve without prompting.

Quick Start:
  tempoclerk blocks                    # Show today's segmented activity
  tempoclerk review                    # Review and correct today's entries
  tempoclerk export --format csv       # Resolve via rules only and export

Input is either a directory of daily JSONL logs written by the capture
daemon, or a SQLite activity database (see 'tempoclerk import').`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "data", "Observation source (log directory or activity database)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
