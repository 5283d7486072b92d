// Package service defines the backend-agnostic interface for task persistence.
package service

import (
	"context"

	"todo/internal/tasklist"
)

// Service loads and saves the whole task list as one snapshot.
// Commands never import a storage driver directly.
type Service interface {
	// Load reads the stored list.
	// A missing snapshot yields an empty list and no error.
	// An unreadable snapshot yields an error matching ErrCorrupt.
	Load(ctx context.Context) (*tasklist.List, error)

	// Save replaces the stored snapshot with list.
	Save(ctx context.Context, list *tasklist.List) error

	// Close releases any resources held by the backend.
	Close() error
}
