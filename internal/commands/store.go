package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
)

// loadList loads the task list for a one-shot command.
// A corrupt file is reported and left untouched.
func loadList(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*tasklist.List, int) {
	list, err := svc.Load(ctx)
	if err != nil {
		if errors.Is(err, service.ErrCorrupt) {
			fmt.Fprintf(errOut, "error: cannot read task file: %v\n", err)
			return nil, exitcode.StoreError
		}
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return nil, exitcode.StoreError
	}
	log.FromContext(ctx).Debug("loaded tasks", "path", cfg.DataPath(), "count", list.Len())
	return list, exitcode.Success
}

// saveList saves list, reporting failures on errOut.
func saveList(ctx context.Context, cfg *config.Config, svc service.Service, list *tasklist.List, errOut io.Writer) int {
	if err := svc.Save(ctx, list); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}
	log.FromContext(ctx).Debug("saved tasks", "path", cfg.DataPath(), "count", list.Len())
	return exitcode.Success
}

// updateList loads the list, applies fn and saves the result.
// Nothing is saved if fn returns a non-zero exit code.
func updateList(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer, fn func(*tasklist.List) int) int {
	list, code := loadList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if code := fn(list); code != exitcode.Success {
		return code
	}
	return saveList(ctx, cfg, svc, list, errOut)
}

// quarantine moves an unreadable task file aside so a later save cannot
// overwrite it.
func quarantine(cfg *config.Config) error {
	if err := os.Rename(cfg.DataPath(), cfg.QuarantinePath()); err != nil {
		return fmt.Errorf("move unreadable task file aside: %w", err)
	}
	return nil
}
