package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is written to store_metadata when the schema is created.
const SchemaVersion = "1"

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT
)`

const createRunCommitsTable = `
CREATE TABLE IF NOT EXISTS run_commits (
	run_id    TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	commit_id TEXT NOT NULL,
	PRIMARY KEY (run_id, commit_id)
)`

const createRefactoringsTable = `
CREATE TABLE IF NOT EXISTS refactorings (
	refactoring_id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	commit_id      TEXT NOT NULL,
	ordinal        INTEGER NOT NULL,
	kind           TEXT NOT NULL,
	description    TEXT NOT NULL,
	UNIQUE (run_id, commit_id, ordinal)
)`

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
	refactoring_id INTEGER NOT NULL REFERENCES refactorings(refactoring_id) ON DELETE CASCADE,
	side           TEXT NOT NULL CHECK (side IN ('left', 'right')),
	ordinal        INTEGER NOT NULL,
	file_path      TEXT NOT NULL,
	start_line     INTEGER NOT NULL,
	start_column   INTEGER NOT NULL,
	end_line       INTEGER NOT NULL,
	end_column     INTEGER NOT NULL,
	element_kind   TEXT NOT NULL,
	description    TEXT NOT NULL,
	code           TEXT NOT NULL,
	PRIMARY KEY (refactoring_id, side, ordinal)
)`

const createFailuresTable = `
CREATE TABLE IF NOT EXISTS failures (
	run_id     TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	commit_id  TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

const createTimeoutsTable = `
CREATE TABLE IF NOT EXISTS timeouts (
	run_id     TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	commit_id  TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS store_metadata (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_refactorings_commit ON refactorings(run_id, commit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refactorings_kind ON refactorings(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeouts_run ON timeouts(run_id)`,
}

// CreateSchema creates all tables and indexes in one transaction. It is
// idempotent and records the schema version on first creation.
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"run_commits", createRunCommitsTable},
		{"refactorings", createRefactoringsTable},
		{"locations", createLocationsTable},
		{"failures", createFailuresTable},
		{"timeouts", createTimeoutsTable},
		{"store_metadata", createMetadataTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO store_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)`,
		SchemaVersion, now,
	); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var version string
	err := db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in store_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}
