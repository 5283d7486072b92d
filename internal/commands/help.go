package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	WriteHelp(out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints usage for every command in r.
func WriteHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	for _, cmd := range r.All() {
		line := cmd.Usage()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "  %-48s %s\n", line, cmd.Synopsis())
	}
	fmt.Fprint(w, helpFooter)
}

const helpFooter = `
Shell commands (case-insensitive):
  V  View tasks       A  Add task       M  Mark task(s) as complete
  D  Delete task(s)   E  Exit and save

Common flags:
  --config <dir>          Override config directory
  --file <path>           Override task file
  --backend json|sqlite   Override storage backend
  --quiet                 Suppress informational output
  --debug                 Print debug logs to stderr
`
