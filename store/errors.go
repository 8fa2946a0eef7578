package store

import (
	"errors"
	"fmt"
)

// IOError is a read/write failure against the artifact store. It is fatal
// for the affected artifact: the engine performs no retry, since masking
// an I/O failure would undermine trustworthy change detection.
type IOError struct {
	// Op is the failing operation ("save", "load", "accept", "list").
	Op string

	// Path is the affected file or directory.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is a store I/O error.
// Uses errors.As to handle wrapped errors.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
