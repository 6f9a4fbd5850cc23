package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVExporter exports timesheets in the ledger's CSV import format.
type CSVExporter struct{}

// Export writes one row per entry with the columns the ledger expects.
func (e *CSVExporter) Export(ts *Timesheet, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", "Hours", "Issue Key", "Description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range ts.Entries {
		record := []string{
			entry.Date,
			fmt.Sprintf("%.2f", entry.Hours),
			entry.IssueKey,
			entry.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
