// Package jsonfile implements service.Service as a single JSON document on disk.
package jsonfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/service"
	"todo/internal/tasklist"
)

// SchemaVersion is the snapshot format version written by Save.
const SchemaVersion = 1

const schemaURL = "task-list.schema.json"

//go:embed schema.json
var schemaJSON []byte

// snapshot is the on-disk document.
type snapshot struct {
	SchemaVersion int          `json:"schema_version"`
	Tasks         []taskRecord `json:"tasks"`
}

type taskRecord struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
}

// Store keeps the task list in one JSON file.
type Store struct {
	path   string
	schema *jsonschema.Schema
}

// New creates a store backed by the file at path.
// The file is not touched until Load or Save is called.
func New(path string) (*Store, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Store{path: path, schema: schema}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load implements service.Service.
func (s *Store) Load(ctx context.Context) (*tasklist.List, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tasklist.NewList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	if err := s.validate(data); err != nil {
		return nil, &service.CorruptError{Path: s.path, Err: err}
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &service.CorruptError{Path: s.path, Err: err}
	}

	tasks := make([]tasklist.Task, 0, len(snap.Tasks))
	for i, rec := range snap.Tasks {
		status, err := tasklist.ParseStatus(rec.Status)
		if err != nil {
			return nil, &service.CorruptError{Path: s.path, Err: fmt.Errorf("tasks[%d]: %w", i, err)}
		}
		tasks = append(tasks, tasklist.Task{
			ID:       rec.ID,
			Name:     rec.Name,
			Status:   status,
			Priority: rec.Priority,
		})
	}
	return tasklist.NewList(tasks...), nil
}

// validate checks raw file contents against the embedded schema.
func (s *Store) validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return err
	}
	return nil
}

// Save implements service.Service.
// The file is replaced atomically so a failed write leaves the old snapshot.
func (s *Store) Save(ctx context.Context, list *tasklist.List) error {
	snap := snapshot{
		SchemaVersion: SchemaVersion,
		Tasks:         make([]taskRecord, 0, list.Len()),
	}
	for _, t := range list.Tasks() {
		snap.Tasks = append(snap.Tasks, taskRecord{
			ID:       t.ID,
			Name:     t.Name,
			Status:   string(t.Status),
			Priority: t.Priority,
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// Close implements service.Service.
func (s *Store) Close() error {
	return nil
}
