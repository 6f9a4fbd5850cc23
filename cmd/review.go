package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
	"github.com/tempoclerk/tempoclerk/internal/export"
	"github.com/tempoclerk/tempoclerk/internal/upload"
)

var (
	reviewYesterday       bool
	reviewExportOnly      bool
	reviewUpload          bool
	reviewAllowUnassigned bool
	reviewFormat          string
	reviewOutDir          string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review [date]",
	Short: "Review and export a day's timesheet entries",
	Long: `Review a day's derived timesheet entries interactively, correcting task
assignments where the matcher got them wrong. Corrections are recorded as
learned patterns; once a pattern has been corrected often enough it is
applied automatically.

With --export-only every entry is resolved from rules and the default task
with no prompting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDate(args, reviewYesterday)
		if err != nil {
			return err
		}

		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}

		// The pattern set is read once here and written back once at
		// session end. Concurrent sessions against the same file are not
		// supported.
		store := internal.NewPatternStore(cfg.PatternStorePath())
		set, err := store.Load()
		if err != nil {
			return err
		}

		entries, proposals, err := loadDay(cfg, set, day)
		if err != nil {
			return err
		}

		learner := internal.NewLearner(set)
		session := internal.NewReviewSession(day, entries, proposals, cfg, learner, cmd.InOrStdin(), cmd.OutOrStdout())

		if reviewExportOnly {
			session.ResolveAll()
		} else {
			if err := session.Run(); err != nil {
				return err
			}
		}

		if session.State() == internal.StateAborted {
			// Partial entries are discarded; corrections from this session
			// are deliberately not saved either.
			return fmt.Errorf("review aborted, nothing exported")
		}

		// A failed write here is fatal: we must not claim corrections were
		// saved when they were not.
		if err := store.Save(learner.Set()); err != nil {
			return err
		}

		if err := writeTimesheet(cfg, day, session.Entries(), reviewFormat, reviewOutDir, reviewAllowUnassigned); err != nil {
			return err
		}

		if reviewUpload || session.UploadRequested() {
			return uploadEntries(cmd.Context(), cfg, session.Entries())
		}
		return nil
	},
}

// writeTimesheet checks the export guard, then serializes the finalized
// entry set to <out>/<date>-timesheet.<ext>.
func writeTimesheet(cfg *internal.Config, day string, entries []*internal.Entry, format, outDir string, allowUnassigned bool) error {
	if err := export.Check(entries, allowUnassigned); err != nil {
		return err
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s-timesheet.%s", day, exporter.Extension()))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	ts := export.Build(day, entries, cfg.RoundingPolicy())
	if err := exporter.Export(ts, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to export timesheet: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	internal.PrintSuccess(fmt.Sprintf("Exported %d entr(ies) to %s", len(ts.Entries), path))
	return nil
}

// uploadEntries hands the finalized entry set to the ledger's upload client.
// Transport failures are reported, not retried.
func uploadEntries(ctx context.Context, cfg *internal.Config, entries []*internal.Entry) error {
	token := os.Getenv("TEMPO_API_TOKEN")
	if token == "" {
		token = cfg.Tempo.APIToken
	}
	if token == "" {
		return fmt.Errorf("cannot upload: set TEMPO_API_TOKEN or tempo.api_token in config")
	}

	client := upload.NewClient(cfg.Tempo.APIURL, token)
	uploaded, err := client.Upload(ctx, entries, cfg.RoundingPolicy())
	if err != nil {
		return fmt.Errorf("upload incomplete: %d entr(ies) uploaded: %w", uploaded, err)
	}

	internal.PrintSuccess(fmt.Sprintf("Uploaded %d worklog(s)", uploaded))
	return nil
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().BoolVar(&reviewYesterday, "yesterday", false, "Review yesterday's activity")
	reviewCmd.Flags().BoolVar(&reviewExportOnly, "export-only", false, "Resolve via rules and default task only, no prompting")
	reviewCmd.Flags().BoolVar(&reviewUpload, "upload", false, "Upload to the timesheet ledger after export")
	reviewCmd.Flags().BoolVar(&reviewAllowUnassigned, "allow-unassigned", false, "Allow export with unassigned entries (flagged in output)")
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "csv", "Export format (csv, json, yaml, md)")
	reviewCmd.Flags().StringVarP(&reviewOutDir, "out", "o", "tempo", "Output directory")
}
