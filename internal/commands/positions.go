package commands

import (
	"errors"
	"strings"

	"todo/internal/tasklist"
)

// ErrPositionRequired indicates no usable task position was provided.
var ErrPositionRequired = errors.New("task position required")

// ParsePositionArgs turns command arguments into 1-based task positions.
//
// Arguments are treated like one line of shell input: tokens that are not
// integers are skipped, and out-of-range positions are left for the list
// to ignore. It is an error only when nothing parses at all.
func ParsePositionArgs(args []string) ([]int, error) {
	positions := tasklist.ParsePositions(strings.Join(args, " "))
	if len(positions) == 0 {
		return nil, ErrPositionRequired
	}
	return positions, nil
}
