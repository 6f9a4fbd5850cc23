package export

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownExporter exports timesheets in Markdown format
type MarkdownExporter struct{}

// Export exports a timesheet to Markdown format
func (e *MarkdownExporter) Export(ts *Timesheet, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Timesheet %s\n\n", ts.Date)
	_, _ = fmt.Fprintf(w, "**Total:** %.2fh  \n", ts.TotalHours)
	_, _ = fmt.Fprintf(w, "**Rounding:** %s\n\n", ts.Rounding)

	_, _ = fmt.Fprintf(w, "| Time | Hours | Task | Description |\n")
	_, _ = fmt.Fprintf(w, "|------|-------|------|-------------|\n")

	for _, entry := range ts.Entries {
		task := entry.IssueKey
		if entry.Unassigned {
			task = "*" + task + "*"
		}
		_, _ = fmt.Fprintf(w, "| %s-%s | %.2f | %s | %s |\n",
			entry.Start, entry.End, entry.Hours, task, escapeCell(entry.Description))
	}

	return nil
}

// escapeCell keeps pipes in descriptions from breaking the table
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
