package service

import (
	"errors"
	"fmt"
)

// ErrCorrupt indicates a snapshot exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt task file")

// CorruptError describes a snapshot that exists but could not be read back.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCorrupt, e.Path, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is reports ErrCorrupt as a match so callers can use errors.Is.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}
