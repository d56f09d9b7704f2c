package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		backend    TEXT NOT NULL,
		from_date  TEXT NOT NULL,
		to_date    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_sets (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		name        TEXT NOT NULL CHECK(name IN ('commits','projects','workdir')),
		payload     BLOB NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at)`,
}
