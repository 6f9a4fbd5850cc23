package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
)

var importDBPath string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.jsonl> [file.jsonl...]",
	Short: "Import daily JSONL logs into the activity database",
	Long: `Import one or more daily JSONL observation logs into the SQLite activity
database. Each file must be named YYYY-MM-DD.jsonl; its rows replace any
previously imported rows for that day.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := internal.OpenDatabase(importDBPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		store := internal.NewSQLiteStore(db)

		for _, path := range args {
			day := strings.TrimSuffix(filepath.Base(path), ".jsonl")
			if !isDate(day) {
				return fmt.Errorf("cannot derive date from %q: expected YYYY-MM-DD.jsonl", path)
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}

			observations, err := internal.ParseObservationLog(day, file)
			_ = file.Close()
			if err != nil {
				return err
			}

			count, err := store.ImportDay(day, observations)
			if err != nil {
				return err
			}
			internal.LogInfo("Imported %d observation(s) for %s", count, day)
		}

		internal.PrintSuccess(fmt.Sprintf("Imported %d day(s) into %s", len(args), importDBPath))
		return nil
	},
}

func isDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importDBPath, "db", "activity.db", "Activity database path")
}
