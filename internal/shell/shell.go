// Package shell implements the menu-driven interactive loop over a task list.
//
// The shell reads one line per command letter (V, A, M, D, E, case-insensitive)
// and mutates the list it was given. It never persists anything itself: the
// caller loads the list before Run and saves it afterwards.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/output"
	"todo/internal/tasklist"
)

// Prompts and messages shown by the shell.
const (
	PromptName     = "Set the name of the task: "
	PromptPriority = "Set the priority of the task: "
	PromptMark     = "Which tasks would you like to mark as completed?"
	PromptDelete   = "Which tasks would you like to delete?"
	MsgBadPriority = "Priority must be a number"
	MsgBadCommand  = "Please input correct character."
)

const (
	initialLineBuf = 64 * 1024
	maxLineBytes   = 1024 * 1024
)

// Shell runs the interactive loop. A Shell is single-use.
type Shell struct {
	list *tasklist.List
	in   io.Reader
	out  io.Writer

	lines   chan string
	done    chan struct{}
	readErr error
}

// New creates a shell operating on list.
func New(list *tasklist.List, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		list: list,
		in:   in,
		out:  out,
	}
}

// Run loops until the user exits, input ends, or ctx is cancelled.
// It returns nil for exit and end of input, and the context error on
// cancellation. In every case the list holds the latest state.
func (s *Shell) Run(ctx context.Context) error {
	s.startReader()
	defer close(s.done)

	logger := log.FromContext(ctx)

	for {
		output.FormatMenu(s.out)

		line, err := s.readLine(ctx)
		if err != nil {
			return s.finish(logger, err)
		}

		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "E":
			logger.Debug("exit requested")
			return nil
		case "V":
			output.FormatList(s.out, s.list.Tasks())
		case "A":
			if err := s.add(ctx, logger); err != nil {
				return s.finish(logger, err)
			}
		case "M":
			positions, err := s.ask(ctx, PromptMark)
			if err != nil {
				return s.finish(logger, err)
			}
			s.list.MarkComplete(positions)
			logger.Debug("marked tasks complete", "positions", positions)
		case "D":
			positions, err := s.ask(ctx, PromptDelete)
			if err != nil {
				return s.finish(logger, err)
			}
			removed := s.list.Delete(positions)
			logger.Debug("deleted tasks", "positions", positions, "removed", removed)
		default:
			fmt.Fprintln(s.out, MsgBadCommand)
		}
	}
}

// add reads a name, then re-prompts for the priority until it parses.
func (s *Shell) add(ctx context.Context, logger *log.Logger) error {
	fmt.Fprintln(s.out, PromptName)
	name, err := s.readLine(ctx)
	if err != nil {
		return err
	}

	for {
		fmt.Fprintln(s.out, PromptPriority)
		line, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		priority, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(s.out, MsgBadPriority)
			continue
		}

		s.list.Add(tasklist.NewTask(name, priority))
		logger.Debug("added task", "name", name, "priority", priority)
		return nil
	}
}

// ask prints prompt and parses the answer as positions.
func (s *Shell) ask(ctx context.Context, prompt string) ([]int, error) {
	fmt.Fprintln(s.out, prompt)
	line, err := s.readLine(ctx)
	if err != nil {
		return nil, err
	}
	return tasklist.ParsePositions(line), nil
}

// finish maps the error that ended the loop to Run's result.
func (s *Shell) finish(logger *log.Logger, err error) error {
	if errors.Is(err, io.EOF) {
		if s.readErr != nil {
			logger.Warn("stopped reading input", "err", s.readErr)
		}
		logger.Debug("end of input")
		return nil
	}
	return err
}

// startReader feeds input lines to s.lines from a separate goroutine so a
// blocked read never hides a cancelled context.
func (s *Shell) startReader() {
	s.lines = make(chan string)
	s.done = make(chan struct{})

	go func() {
		defer close(s.lines)

		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, initialLineBuf), maxLineBytes)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-s.done:
				return
			}
		}
		s.readErr = sc.Err()
	}()
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}
