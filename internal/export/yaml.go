package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports timesheets in YAML format
type YAMLExporter struct{}

// Export exports a timesheet to YAML format
func (e *YAMLExporter) Export(ts *Timesheet, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(ts)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
