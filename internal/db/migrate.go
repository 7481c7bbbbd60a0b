package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS audit_events (
		event_id        TEXT PRIMARY KEY,
		recorded_at     TEXT NOT NULL,
		intent          TEXT NOT NULL
		                CHECK(intent IN ('QUERY','VALIDATE','SUMMARIZE','EXPLAIN','UNKNOWN')),
		confidence      REAL NOT NULL DEFAULT 0,
		output_format   TEXT NOT NULL DEFAULT '',
		file_path       TEXT NOT NULL,
		has_sql         INTEGER NOT NULL DEFAULT 0,
		potential_pii   INTEGER NOT NULL DEFAULT 0,
		redaction_count INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_events_recorded ON audit_events(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_intent ON audit_events(intent)`,

	`CREATE TABLE IF NOT EXISTS intent_tallies (
		intent    TEXT PRIMARY KEY,
		total     INTEGER NOT NULL DEFAULT 0 CHECK(total >= 0),
		last_seen TEXT NOT NULL
	)`,

	`ALTER TABLE audit_events ADD COLUMN schema_path TEXT NOT NULL DEFAULT ''`,
}
