package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
)

var (
	exportYesterday       bool
	exportUpload          bool
	exportAllowUnassigned bool
	exportFormat          string
	exportOutDir          string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [date]",
	Short: "Resolve a day via rules only and export it",
	Long: `Export a day's timesheet without interactive review: every block is
resolved by the matcher or falls back to the default task. Equivalent to
'review --export-only'.

Without a default task configured, unmatched blocks stay unassigned and the
export fails unless --allow-unassigned is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDate(args, exportYesterday)
		if err != nil {
			return err
		}

		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}

		store := internal.NewPatternStore(cfg.PatternStorePath())
		set, err := store.Load()
		if err != nil {
			return err
		}

		entries, proposals, err := loadDay(cfg, set, day)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no entries for %s", day)
		}

		learner := internal.NewLearner(set)
		session := internal.NewReviewSession(day, entries, proposals, cfg, learner, cmd.InOrStdin(), cmd.OutOrStdout())
		session.ResolveAll()

		if err := writeTimesheet(cfg, day, session.Entries(), exportFormat, exportOutDir, exportAllowUnassigned); err != nil {
			return err
		}

		if exportUpload {
			return uploadEntries(cmd.Context(), cfg, session.Entries())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportYesterday, "yesterday", false, "Export yesterday's activity")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload to the timesheet ledger after export")
	exportCmd.Flags().BoolVar(&exportAllowUnassigned, "allow-unassigned", false, "Allow export with unassigned entries (flagged in output)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json, yaml, md)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "tempo", "Output directory")
}
