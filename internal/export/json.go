package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports timesheets in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a timesheet to JSON format
func (e *JSONExporter) Export(ts *Timesheet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(ts)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
