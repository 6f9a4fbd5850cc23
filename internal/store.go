package internal

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ObservationSource provides one day's raw activity observations, ordered by
// timestamp. The capture daemon writes them; this side only reads.
type ObservationSource interface {
	LoadDay(date string) ([]Observation, error)
}

// OpenSource resolves a data path to an observation source: a directory of
// daily JSONL logs, or a SQLite activity database file. The returned closer
// must be called when done.
func OpenSource(path string) (ObservationSource, func() error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	if info.IsDir() {
		return NewLogDir(path), func() error { return nil }, nil
	}

	db, err := OpenDatabase(path)
	if err != nil {
		return nil, nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	return NewSQLiteStore(db), db.Close, nil
}

// SQLiteStore reads observations from the activity database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadDay returns the day's observations ordered by timestamp.
func (s *SQLiteStore) LoadDay(date string) ([]Observation, error) {
	rows, err := s.db.Query(
		"SELECT ts, app, title, url, open_apps FROM observations WHERE day = ? ORDER BY ts", date)
	if err != nil {
		return nil, &StoreError{Path: date, Op: "read", Err: err}
	}
	defer rows.Close()

	var observations []Observation
	index := 0
	for rows.Next() {
		var ts, app, title, url, openApps string
		if err := rows.Scan(&ts, &app, &title, &url, &openApps); err != nil {
			return nil, &StoreError{Path: date, Op: "read", Err: err}
		}

		when, err := parseTimestamp(ts)
		if err != nil {
			return nil, &ObservationError{Date: date, Index: index, Field: "ts", Err: err}
		}

		o := Observation{Timestamp: when, App: app, Title: title, URL: url}
		if openApps != "" && openApps != "[]" {
			if err := json.Unmarshal([]byte(openApps), &o.OpenApps); err != nil {
				return nil, &ObservationError{Date: date, Index: index, Field: "open_apps", Err: err}
			}
		}
		observations = append(observations, o)
		index++
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: date, Op: "read", Err: err}
	}

	LogDebug("Loaded %d observation(s) for %s from database", len(observations), date)
	return observations, nil
}

// ImportDay replaces the day's rows with the given observations, in one
// transaction. Returns the number of rows written.
func (s *SQLiteStore) ImportDay(date string, observations []Observation) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StoreError{Path: date, Op: "import", Err: err}
	}

	if _, err := tx.Exec("DELETE FROM observations WHERE day = ?", date); err != nil {
		_ = tx.Rollback()
		return 0, &StoreError{Path: date, Op: "import", Err: err}
	}

	count := 0
	for _, o := range observations {
		openApps := "[]"
		if len(o.OpenApps) > 0 {
			data, err := json.Marshal(o.OpenApps)
			if err != nil {
				_ = tx.Rollback()
				return 0, &StoreError{Path: date, Op: "import", Err: err}
			}
			openApps = string(data)
		}

		_, err := tx.Exec(
			"INSERT OR REPLACE INTO observations (day, ts, app, title, url, open_apps) VALUES (?, ?, ?, ?, ?, ?)",
			date, o.Timestamp.Format(time.RFC3339), o.App, o.Title, o.URL, openApps)
		if err != nil {
			_ = tx.Rollback()
			return 0, &StoreError{Path: date, Op: "import", Err: err}
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, &StoreError{Path: date, Op: "import", Err: err}
	}
	return count, nil
}

// LogDir reads observations from a directory of daily JSONL logs, one file
// per day named YYYY-MM-DD.jsonl, as written by the capture daemon.
type LogDir struct {
	dir string
}

// NewLogDir creates a source over a log directory.
func NewLogDir(dir string) *LogDir {
	return &LogDir{dir: dir}
}

// LoadDay parses the day's JSONL log. Malformed records are rejected with
// their line context rather than silently skipped, so a bad day can be fixed
// and re-run.
func (d *LogDir) LoadDay(date string) ([]Observation, error) {
	path := filepath.Join(d.dir, date+".jsonl")
	file, err := os.Open(path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	observations, err := ParseObservationLog(date, file)
	if err != nil {
		return nil, err
	}

	LogDebug("Loaded %d observation(s) from %s", len(observations), path)
	return observations, nil
}

// rawObservation mirrors the capture daemon's JSONL record shape.
type rawObservation struct {
	Ts       string   `json:"ts"`
	App      string   `json:"app"`
	Title    string   `json:"title"`
	URL      string   `json:"url,omitempty"`
	OpenApps []string `json:"open_apps,omitempty"`
}

// ParseObservationLog decodes a JSONL observation stream. Blank lines are
// ignored; anything else malformed fails the whole day.
func ParseObservationLog(date string, r io.Reader) ([]Observation, error) {
	var observations []Observation

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	index := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw rawObservation
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, &ObservationError{Date: date, Index: index, Field: "record", Err: err}
		}
		if raw.Ts == "" {
			return nil, &ObservationError{Date: date, Index: index, Field: "ts", Err: fmt.Errorf("missing timestamp")}
		}

		when, err := parseTimestamp(raw.Ts)
		if err != nil {
			return nil, &ObservationError{Date: date, Index: index, Field: "ts", Err: err}
		}

		observations = append(observations, Observation{
			Timestamp: when,
			App:       raw.App,
			Title:     raw.Title,
			URL:       raw.URL,
			OpenApps:  raw.OpenApps,
		})
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, &StoreError{Path: date, Op: "read", Err: err}
	}

	return observations, nil
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO 8601 form the
// capture daemon emits.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}
