// Package tasklist holds the in-memory task model and its position-based
// mutations.
package tasklist

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Status is the completion state of a task.
type Status string

const (
	StatusIncomplete Status = "Incomplete"
	StatusComplete   Status = "Complete"
)

// ParseStatus converts a stored status string back into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusIncomplete, StatusComplete:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

// Task is a single to-do item.
// ID is opaque and only survives persistence; users address tasks by position.
type Task struct {
	ID       string
	Name     string
	Status   Status
	Priority int
}

// NewTask creates an incomplete task with a fresh ID.
func NewTask(name string, priority int) Task {
	return Task{
		ID:       uuid.NewString(),
		Name:     name,
		Status:   StatusIncomplete,
		Priority: priority,
	}
}

// List is an ordered sequence of tasks. Positions are 1-based and shift
// whenever an earlier task is removed.
type List struct {
	tasks []Task
}

// NewList builds a list holding tasks in the given order.
func NewList(tasks ...Task) *List {
	l := &List{tasks: make([]Task, len(tasks))}
	copy(l.tasks, tasks)
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the tasks in list order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// At returns the task at a 1-based position.
func (l *List) At(pos int) (Task, bool) {
	if !l.inRange(pos) {
		return Task{}, false
	}
	return l.tasks[pos-1], true
}

// Add appends a task and re-sorts the list by priority.
// No validation is done on the task.
func (l *List) Add(t Task) {
	l.tasks = append(l.tasks, t)
	l.Sort()
}

// MarkComplete marks the tasks at the given 1-based positions as complete.
// Out-of-range positions are ignored.
func (l *List) MarkComplete(positions []int) {
	for _, pos := range positions {
		if l.inRange(pos) {
			l.tasks[pos-1].Status = StatusComplete
		}
	}
}

// Delete removes the tasks originally at the given 1-based positions and
// returns how many were removed. Positions are deduplicated and removed
// highest first so pending removals keep their meaning.
func (l *List) Delete(positions []int) int {
	uniq := slices.Clone(positions)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	slices.Reverse(uniq)

	removed := 0
	for _, pos := range uniq {
		if !l.inRange(pos) {
			continue
		}
		l.tasks = slices.Delete(l.tasks, pos-1, pos)
		removed++
	}
	return removed
}

// Sort orders the list ascending by priority. Ties keep their relative order.
func (l *List) Sort() {
	slices.SortStableFunc(l.tasks, func(a, b Task) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
}

func (l *List) inRange(pos int) bool {
	return pos >= 1 && pos <= len(l.tasks)
}

// ParsePositions extracts integers from whitespace-separated text.
// Tokens that are not integers are skipped; input order is kept.
func ParsePositions(text string) []int {
	var positions []int
	for _, field := range strings.Fields(text) {
		n, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		positions = append(positions, n)
	}
	return positions
}
