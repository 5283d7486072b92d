// Package cli parses the command line and wires config, logging and the
// task store into the selected command.
package cli

import (
	"context"
	"fmt"

	"todo/internal/backend/jsonfile"
	"todo/internal/backend/sqlite"
	"todo/internal/config"
	"todo/internal/service"
)

// NewService opens the storage backend selected by cfg.
func NewService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		store, err := jsonfile.New(cfg.DataPath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendSQLite:
		return sqlite.New(cfg.DataPath()), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
