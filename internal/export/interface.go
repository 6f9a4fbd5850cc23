package export

import (
	"fmt"
	"io"

	"github.com/tempoclerk/tempoclerk/internal"
)

// Timesheet is the finalized entry set for one day, shaped for the external
// ledger's input contract. The exporters only map fields; transport belongs
// to the upload client.
type Timesheet struct {
	Date       string           `json:"date" yaml:"date"`
	Rounding   string           `json:"rounding" yaml:"rounding"`
	TotalHours float64          `json:"total_hours" yaml:"total_hours"`
	Entries    []TimesheetEntry `json:"entries" yaml:"entries"`
}

// TimesheetEntry is one exported worklog line.
type TimesheetEntry struct {
	Date        string   `json:"date" yaml:"date"`
	Start       string   `json:"start_time" yaml:"start_time"`
	End         string   `json:"end_time" yaml:"end_time"`
	Hours       float64  `json:"hours" yaml:"hours"`
	IssueKey    string   `json:"issue_key" yaml:"issue_key"`
	TaskName    string   `json:"task_name,omitempty" yaml:"task_name,omitempty"`
	Description string   `json:"description" yaml:"description"`
	SourceApps  []string `json:"source_apps,omitempty" yaml:"source_apps,omitempty"`
	Unassigned  bool     `json:"unassigned,omitempty" yaml:"unassigned,omitempty"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(ts *Timesheet, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json, yaml, md)", format)
	}
}

// Check guards export: by default any unassigned entry blocks the whole
// export. With allowUnassigned the export proceeds and unassigned entries
// are flagged in the output instead of silently dropped.
func Check(entries []*internal.Entry, allowUnassigned bool) error {
	if allowUnassigned {
		return nil
	}
	for i, e := range entries {
		if e.Unassigned() {
			return fmt.Errorf("entry %d (%s, %s) is unassigned; assign a task or export with --allow-unassigned",
				i+1, e.TimeRange(), e.App)
		}
	}
	return nil
}

// Build maps finalized entries into the export document. Rounding is applied
// here, per entry, using round-half-up on the duration.
func Build(date string, entries []*internal.Entry, policy internal.RoundingPolicy) *Timesheet {
	ts := &Timesheet{
		Date:     date,
		Rounding: string(policy),
	}

	for _, e := range entries {
		hours := e.RoundedHours(policy)
		te := TimesheetEntry{
			Date:        e.Start.Format("2006-01-02"),
			Start:       e.Start.Format("15:04"),
			End:         e.End.Format("15:04"),
			Hours:       hours,
			IssueKey:    e.TaskKey,
			TaskName:    e.TaskName,
			Description: e.Description,
			SourceApps:  e.SourceApps,
		}
		if e.Unassigned() {
			te.IssueKey = "UNASSIGNED"
			te.Unassigned = true
		}
		ts.Entries = append(ts.Entries, te)
		ts.TotalHours += hours
	}

	return ts
}
