package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const observationsSchema = `
CREATE TABLE IF NOT EXISTS observations (
	day       TEXT NOT NULL,
	ts        TEXT NOT NULL,
	app       TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	url       TEXT NOT NULL DEFAULT '',
	open_apps TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (day, ts)
);
CREATE INDEX IF NOT EXISTS idx_observations_day ON observations(day);
`

// OpenDatabase opens (and if needed initializes) the activity SQLite
// database.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(observationsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
