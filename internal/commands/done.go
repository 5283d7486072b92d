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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"mark"} }
func (c *DoneCmd) Synopsis() string  { return "Mark task(s) completed" }
func (c *DoneCmd) Usage() string     { return "todo done <position...>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	positions, err := ParsePositionArgs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	code := updateList(ctx, cfg, svc, errOut, func(list *tasklist.List) int {
		list.MarkComplete(positions)
		log.FromContext(ctx).Debug("marked tasks complete", "positions", positions)
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
