// Package output provides formatters for CLI and shell output.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/tasklist"
)

// MenuPrompt heads the shell menu.
const MenuPrompt = "What would you like to do?"

// MenuOptions are the shell commands in display order.
var MenuOptions = []string{
	`"V": View tasks`,
	`"A": Add task`,
	`"M": Mark task(s) as complete`,
	`"D": Delete task(s)`,
	`"E": Exit program`,
}

// Styles are resolved per writer so colour only reaches terminals.
type styles struct {
	heading  lipgloss.Style
	complete lipgloss.Style
	pending  lipgloss.Style
}

func stylesFor(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading:  r.NewStyle().Bold(true),
		complete: r.NewStyle().Foreground(lipgloss.Color("2")),
		pending:  r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// FormatTask formats one task line.
// Format: "{POS}: {NAME}, {PRIORITY} - {STATUS}\n"
func FormatTask(w io.Writer, pos int, task tasklist.Task) {
	st := stylesFor(w)
	status := st.pending.Render(string(task.Status))
	if task.Status == tasklist.StatusComplete {
		status = st.complete.Render(string(task.Status))
	}
	fmt.Fprintf(w, "%d: %s, %d - %s\n", pos, task.Name, task.Priority, status)
}

// FormatList formats every task in list order with 1-based positions.
func FormatList(w io.Writer, tasks []tasklist.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatMenu prints the shell menu preceded by a blank line.
func FormatMenu(w io.Writer) {
	st := stylesFor(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.heading.Render(MenuPrompt))
	for _, opt := range MenuOptions {
		fmt.Fprintln(w, opt)
	}
}
