package internal

import "fmt"

// ObservationError represents a malformed or out-of-order observation. Index
// is the zero-based position of the offending record within the day's log.
type ObservationError struct {
	Date  string
	Index int
	Field string
	Err   error
}

func (e *ObservationError) Error() string {
	return fmt.Sprintf("observation error [%s #%d] %s: %v", e.Date, e.Index, e.Field, e.Err)
}

func (e *ObservationError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing an observation source
type StoreError struct {
	Path string
	Op   string // "open", "read", "import"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading or validating configuration
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PatternStoreError represents errors reading or writing the learned
// pattern file. A failed write is fatal to the session: corrections must
// never be reported as saved when they were not.
type PatternStoreError struct {
	Path string
	Op   string // "load", "save"
	Err  error
}

func (e *PatternStoreError) Error() string {
	return fmt.Sprintf("pattern store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PatternStoreError) Unwrap() error {
	return e.Err
}
