package export

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"flowtrack/internal/track"
)

// ToSQLite writes the intervals into a standalone SQLite database so
// they can be queried with ordinary SQL tooling.
func ToSQLite(intervals []track.Interval, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)

	const ddl = `
	CREATE TABLE IF NOT EXISTS intervals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		kind        TEXT NOT NULL,
		duration    INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_intervals_start ON intervals(start_time);
	`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO intervals (start_time, end_time, kind, duration) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, iv := range intervals {
		_, err := stmt.Exec(
			iv.Start.UTC().Format(time.RFC3339),
			iv.End.UTC().Format(time.RFC3339),
			string(iv.Kind),
			int64(iv.Duration().Seconds()),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert interval: %w", err)
		}
	}

	return tx.Commit()
}
