package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete task(s)" }
func (c *RmCmd) Usage() string     { return "todo rm <position...>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run deletes the tasks at the given positions as numbered before the call.
func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	positions, err := ParsePositionArgs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	code := updateList(ctx, cfg, svc, errOut, func(list *tasklist.List) int {
		removed := list.Delete(positions)
		log.FromContext(ctx).Debug("deleted tasks", "positions", positions, "removed", removed)
		return exitcode.Success
	})
	if code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
