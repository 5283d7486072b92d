package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/shell"
	"todo/internal/tasklist"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive menu loop.
// It is also what runs when todo is started without arguments.
type ShellCmd struct{}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return []string{"i"} }
func (c *ShellCmd) Synopsis() string  { return "Interactive menu (default)" }
func (c *ShellCmd) Usage() string     { return "todo [shell]" }
func (c *ShellCmd) NeedsStore() bool  { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	logger := log.FromContext(ctx)

	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list, err := svc.Load(ctx)
	switch {
	case err == nil:
		logger.Debug("loaded tasks", "path", cfg.DataPath(), "count", list.Len(), "existing", cfg.HasData())
	case errors.Is(err, service.ErrCorrupt):
		logger.Warn("task file is unreadable, starting with an empty list", "err", err)
		if qerr := quarantine(cfg); qerr != nil {
			fmt.Fprintf(errOut, "error: store error: %v\n", qerr)
			return exitcode.StoreError
		}
		logger.Warn("unreadable task file kept", "path", cfg.QuarantinePath())
		list = tasklist.NewList()
	default:
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	if err := shell.New(list, in, out).Run(ctx); err != nil {
		logger.Info("interrupted, saving tasks", "reason", err)
	}

	// Save even when interrupted.
	return saveList(context.WithoutCancel(ctx), cfg, svc, list, errOut)
}
