// Package sqlite implements service.Service on a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"

	"todo/internal/service"
	"todo/internal/tasklist"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('Incomplete', 'Complete')),
	priority INTEGER NOT NULL
);
`

// Store keeps the task list in a SQLite file. The connection is opened
// lazily so a missing file is never created by Load.
type Store struct {
	path string
	db   *sql.DB
}

// New creates a store backed by the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return s.classify(fmt.Errorf("failed to migrate database: %w", err))
	}

	s.db = db
	return nil
}

// classify marks errors caused by a file that is not a usable database.
func (s *Store) classify(err error) error {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code {
		case sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
			return &service.CorruptError{Path: s.path, Err: err}
		}
	}
	return err
}

// Load implements service.Service. A corrupt database is closed before the
// error is returned so the file can be moved aside and a later Save starts
// a fresh one.
func (s *Store) Load(ctx context.Context) (*tasklist.List, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return tasklist.NewList(), nil
		}
	}
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	tasks, err := s.readTasks(ctx)
	if err != nil {
		if errors.Is(err, service.ErrCorrupt) {
			s.Close()
		}
		return nil, err
	}
	return tasklist.NewList(tasks...), nil
}

func (s *Store) readTasks(ctx context.Context) ([]tasklist.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, status, priority
		FROM tasks ORDER BY position
	`)
	if err != nil {
		return nil, s.classify(fmt.Errorf("failed to query tasks: %w", err))
	}
	defer rows.Close()

	var tasks []tasklist.Task
	for rows.Next() {
		var t tasklist.Task
		var status string
		if err := rows.Scan(&t.ID, &t.Name, &status, &t.Priority); err != nil {
			return nil, &service.CorruptError{Path: s.path, Err: err}
		}
		t.Status, err = tasklist.ParseStatus(status)
		if err != nil {
			return nil, &service.CorruptError{Path: s.path, Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(fmt.Errorf("failed to read tasks: %w", err))
	}
	return tasks, nil
}

// Save implements service.Service. All rows are replaced in one transaction.
func (s *Store) Save(ctx context.Context, list *tasklist.List) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.open(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (position, id, name, status, priority)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range list.Tasks() {
		if _, err := stmt.ExecContext(ctx, i+1, t.ID, t.Name, string(t.Status), t.Priority); err != nil {
			return fmt.Errorf("failed to insert task %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tasks: %w", err)
	}
	return nil
}

// Close implements service.Service.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
