package storage

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFamily  = errors.New("invalid column family")
	ErrFamilyNotFound = errors.New("column family not found")
	ErrInvalidCell    = errors.New("invalid cell")
	ErrCorruptKey     = errors.New("corrupt storage key")
)

// Error wraps a sentinel error with additional context
type Error struct {
	err     error
	context string
}

func (e *Error) Error() string {
	if e.context == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.err.Error(), e.context)
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}
