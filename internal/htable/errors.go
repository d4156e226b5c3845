package htable

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("filter operator is not initialized")
	ErrNoCurrentRow       = errors.New("matcher has no current row")
	ErrInvalidQuery       = errors.New("invalid scan query")
	ErrInvalidDescriptor  = errors.New("invalid column family descriptor")
	ErrBatchWithRowFilter = errors.New("batch size cannot be combined with a filter that drops whole rows")
)

// Error wraps a sentinel error with additional context
type Error struct {
	err     error  // The underlying sentinel error
	context string // Additional error context
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.context == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.err.Error(), e.context)
}

// Unwrap implements the errors.Unwrap interface for compatibility with errors.Is/As
func (e *Error) Unwrap() error {
	return e.err
}

// newError creates a new scan error with context
func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}
