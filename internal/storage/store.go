// Package storage persists detection results in SQLite. A run groups the
// commits of one batch; each commit contributes an ordered list of
// refactorings, a failure or a timeout.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUnknownRun is returned when a run ID is not in the store.
var ErrUnknownRun = errors.New("unknown run")

// Store handles reading and writing detection results.
type Store struct {
	db *sql.DB
}

// Run is one batch of classified commits.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open
}

// Failure records a commit whose classification did not complete.
type Failure struct {
	CommitID  string    `json:"commit"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open opens or creates a SQLite store at path. Use ":memory:" for a
// private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps in-memory databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun opens a new run and returns its ID.
func (s *Store) BeginRun(source string) (string, error) {
	id := uuid.New().String()
	_, err := sq.Insert("runs").
		Columns("run_id", "source", "started_at").
		Values(id, source, now()).
		RunWith(s.db).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run's completion time.
func (s *Store) FinishRun(runID string) error {
	res, err := sq.Update("runs").
		Set("finished_at", now()).
		Where(sq.Eq{"run_id": runID}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}
	return nil
}

// GetRun loads one run.
func (s *Store) GetRun(runID string) (*Run, error) {
	var (
		run               Run
		started, finished sql.NullString
	)
	err := sq.Select("run_id", "source", "started_at", "finished_at").
		From("runs").
		Where(sq.Eq{"run_id": runID}).
		RunWith(s.db).
		QueryRow().
		Scan(&run.ID, &run.Source, &started, &finished)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", runID, err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return &run, nil
}

// SaveFailure records a commit whose classification failed.
func (s *Store) SaveFailure(runID, commitID string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	_, err := sq.Insert("failures").
		Columns("run_id", "commit_id", "message", "created_at").
		Values(runID, commitID, message, now()).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert failure for commit %s: %w", commitID, err)
	}
	return nil
}

// SaveTimeout records a commit whose classification exceeded its budget.
func (s *Store) SaveTimeout(runID, commitID string) error {
	_, err := sq.Insert("timeouts").
		Columns("run_id", "commit_id", "created_at").
		Values(runID, commitID, now()).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert timeout for commit %s: %w", commitID, err)
	}
	return nil
}

// Failures lists the failed commits of a run in insertion order.
func (s *Store) Failures(runID string) ([]Failure, error) {
	rows, err := sq.Select("commit_id", "message", "created_at").
		From("failures").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var (
			f       Failure
			created sql.NullString
		)
		if err := rows.Scan(&f.CommitID, &f.Message, &created); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.CreatedAt = parseTime(created)
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failures: %w", err)
	}
	return failures, nil
}

// Timeouts lists the timed-out commits of a run in insertion order.
func (s *Store) Timeouts(runID string) ([]string, error) {
	rows, err := sq.Select("commit_id").
		From("timeouts").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query timeouts: %w", err)
	}
	defer rows.Close()

	var commits []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan timeout: %w", err)
		}
		commits = append(commits, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeouts: %w", err)
	}
	return commits, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
