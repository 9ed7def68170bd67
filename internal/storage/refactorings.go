package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/lyoubo/reextractor/internal/refactoring"
)

const (
	sideLeft  = "left"
	sideRight = "right"
)

// SaveRefactorings replaces the facts stored for one commit of a run.
// Order is preserved. All rows are written in one transaction.
func (s *Store) SaveRefactorings(runID, commitID string, refs []refactoring.Refactoring) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	_, err = sq.Insert("run_commits").
		Options("OR IGNORE").
		Columns("run_id", "commit_id").
		Values(runID, commitID).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record commit %s: %w", commitID, err)
	}

	_, err = sq.Delete("refactorings").
		Where(sq.Eq{"run_id": runID, "commit_id": commitID}).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to clear refactorings for commit %s: %w", commitID, err)
	}

	for i, r := range refs {
		res, err := sq.Insert("refactorings").
			Columns("run_id", "commit_id", "ordinal", "kind", "description").
			Values(runID, commitID, i, string(r.Kind), r.Description).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert refactoring %d of commit %s: %w", i, commitID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read refactoring id: %w", err)
		}
		if err := insertLocations(tx, id, sideLeft, r.Left); err != nil {
			return err
		}
		if err := insertLocations(tx, id, sideRight, r.Right); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertLocations(tx *sql.Tx, refactoringID int64, side string, locs []refactoring.Location) error {
	if len(locs) == 0 {
		return nil
	}
	insert := sq.Insert("locations").
		Columns("refactoring_id", "side", "ordinal", "file_path", "start_line", "start_column",
			"end_line", "end_column", "element_kind", "description", "code")
	for i, l := range locs {
		insert = insert.Values(refactoringID, side, i, l.File, l.StartLine, l.StartColumn,
			l.EndLine, l.EndColumn, l.ElementKind, l.Description, l.Code)
	}
	if _, err := insert.RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to insert %s locations: %w", side, err)
	}
	return nil
}

// Refactorings loads the facts of one commit in detection order. Payloads
// are not persisted and come back nil.
func (s *Store) Refactorings(runID, commitID string) ([]refactoring.Refactoring, error) {
	rows, err := sq.Select("refactoring_id", "kind", "description").
		From("refactorings").
		Where(sq.Eq{"run_id": runID, "commit_id": commitID}).
		OrderBy("ordinal").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query refactorings: %w", err)
	}

	var (
		refs []refactoring.Refactoring
		ids  []int64
	)
	for rows.Next() {
		var (
			id   int64
			kind string
			r    refactoring.Refactoring
		)
		if err := rows.Scan(&id, &kind, &r.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan refactoring: %w", err)
		}
		r.Kind = refactoring.Kind(kind)
		refs = append(refs, r)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating refactorings: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return refs, nil
	}
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	if err := s.loadLocations(ids, func(id int64, side string, l refactoring.Location) {
		r := &refs[index[id]]
		if side == sideLeft {
			r.Left = append(r.Left, l)
		} else {
			r.Right = append(r.Right, l)
		}
	}); err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *Store) loadLocations(ids []int64, add func(id int64, side string, l refactoring.Location)) error {
	rows, err := sq.Select("refactoring_id", "side", "file_path", "start_line", "start_column",
		"end_line", "end_column", "element_kind", "description", "code").
		From("locations").
		Where(sq.Eq{"refactoring_id": ids}).
		OrderBy("refactoring_id", "side", "ordinal").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			side string
			l    refactoring.Location
		)
		if err := rows.Scan(&id, &side, &l.File, &l.StartLine, &l.StartColumn,
			&l.EndLine, &l.EndColumn, &l.ElementKind, &l.Description, &l.Code); err != nil {
			return fmt.Errorf("failed to scan location: %w", err)
		}
		add(id, side, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locations: %w", err)
	}
	return nil
}

// KindCounts tallies the stored facts of a run by kind.
func (s *Store) KindCounts(runID string) (map[refactoring.Kind]int, error) {
	rows, err := sq.Select("kind", "COUNT(*)").
		From("refactorings").
		Where(sq.Eq{"run_id": runID}).
		GroupBy("kind").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count refactorings: %w", err)
	}
	defer rows.Close()

	counts := make(map[refactoring.Kind]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[refactoring.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// Commits lists the classified commits of a run in first-stored order,
// including commits with no facts. Failures and timeouts are listed
// separately.
func (s *Store) Commits(runID string) ([]string, error) {
	rows, err := sq.Select("commit_id").
		From("run_commits").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query commits: %w", err)
	}
	defer rows.Close()

	var commits []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		commits = append(commits, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commits: %w", err)
	}
	return commits, nil
}
