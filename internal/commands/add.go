package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority int
}

// SetPriority sets the priority (for testing).
func (c *AddCmd) SetPriority(priority int) {
	c.priority = priority
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "todo add [--priority <n>] <name...> (flags first)" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.IntVar(&c.priority, "p", 0, "")
}

// Run adds one task. The name is taken verbatim and may be empty.
// Flag parsing stops at the first word of the name, so a trailing -p is
// kept as text.
func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	name := strings.Join(args, " ")
	for _, arg := range args {
		switch arg {
		case "-p", "--p", "-priority", "--priority":
			log.FromContext(ctx).Warn("flag after task name is part of the name", "flag", arg)
		}
	}

	code := updateList(ctx, cfg, svc, errOut, func(list *tasklist.List) int {
		list.Add(tasklist.NewTask(name, c.priority))
		log.FromContext(ctx).Debug("added task", "name", name, "priority", c.priority)
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
