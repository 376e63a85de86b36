package utils

import (
	"errors"
	"fmt"
)

var (
	// ErrInputUnavailable signals a missing or unreadable log file. It is fatal.
	ErrInputUnavailable = errors.New("input unavailable")
	// ErrNoValidEntries signals that no line survived parsing. It is a terminal, non-fatal state.
	ErrNoValidEntries = errors.New("no valid log entries")
)

// AppError wraps an operation, human-facing message, and underlying error.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}

// InputUnavailable builds the error returned when path cannot be opened or read.
// The result matches ErrInputUnavailable as well as cause under errors.Is.
func InputUnavailable(op, path string, cause error) error {
	return NewAppError(op, path, fmt.Errorf("%w: %w", ErrInputUnavailable, cause))
}
