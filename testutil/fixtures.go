package testutil

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// CreateActivityDBFixture creates a SQLite activity database fixture with
// sample observations for the given day.
func CreateActivityDBFixture(t *testing.T, dbPath, day string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS observations (
		day       TEXT NOT NULL,
		ts        TEXT NOT NULL,
		app       TEXT NOT NULL,
		title     TEXT NOT NULL DEFAULT '',
		url       TEXT NOT NULL DEFAULT '',
		open_apps TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (day, ts)
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	base, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("Invalid fixture day %q: %v", day, err)
	}
	start := base.Add(9 * time.Hour)

	insertSQL := "INSERT INTO observations (day, ts, app, title, url, open_apps) VALUES (?, ?, ?, ?, ?, ?)"
	rows := []struct {
		offset time.Duration
		app    string
		title  string
	}{
		{0, "Citrix Viewer", "MVW Dashboard Azure PRD"},
		{5 * time.Minute, "Citrix Viewer", "MVW Dashboard Azure PRD"},
		{10 * time.Minute, "Citrix Viewer", "MVW Deploy Azure PRD"},
		{15 * time.Minute, "Terminal", "vim notes.md"},
		{20 * time.Minute, "Terminal", "vim notes.md"},
	}
	for _, row := range rows {
		ts := start.Add(row.offset).Format(time.RFC3339)
		if _, err := db.Exec(insertSQL, day, ts, row.app, row.title, "", "[]"); err != nil {
			t.Fatalf("Failed to insert observation: %v", err)
		}
	}
}

// WriteLogFixture writes a daily JSONL observation log into dir and returns
// its path. Each record is (offset from 09:00, app, title).
func WriteLogFixture(t *testing.T, dir, day string, records []LogRecord) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create log directory: %v", err)
	}

	base, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("Invalid fixture day %q: %v", day, err)
	}
	start := base.Add(9 * time.Hour)

	path := filepath.Join(dir, day+".jsonl")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create log fixture: %v", err)
	}
	defer func() { _ = file.Close() }()

	for _, record := range records {
		entry := map[string]interface{}{
			"ts":    start.Add(record.Offset).Format(time.RFC3339),
			"app":   record.App,
			"title": record.Title,
		}
		if record.URL != "" {
			entry["url"] = record.URL
		}
		data, err := json.Marshal(entry)
		if err != nil {
			t.Fatalf("Failed to marshal log record: %v", err)
		}
		if _, err := fmt.Fprintln(file, string(data)); err != nil {
			t.Fatalf("Failed to write log record: %v", err)
		}
	}

	return path
}

// LogRecord is one observation in a log fixture.
type LogRecord struct {
	Offset time.Duration
	App    string
	Title  string
	URL    string
}

// WriteConfigFixture writes a minimal valid config file and returns its
// path.
func WriteConfigFixture(t *testing.T, dir string) string {
	t.Helper()
	config := `clients:
  - name: ClientA
    tasks:
      - key: CLIENTA-100
        name: Platform maintenance
      - key: CLIENTA-200
        name: Feature development
    patterns:
      - app_contains: Citrix
        title_contains: MVW
        task: CLIENTA-100
default_task:
  key: ADMIN-001
  name: Administrative
rounding: 15min
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}
