package artifact

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes artifact errors.
type ErrorCode string

const (
	// ErrCodeDuplicateEntry indicates an entry name was inserted twice.
	ErrCodeDuplicateEntry ErrorCode = "DUPLICATE_ENTRY"

	// ErrCodeSealed indicates an insert was attempted after Seal.
	ErrCodeSealed ErrorCode = "SEALED_ARTIFACT"

	// ErrCodeFormat indicates a value could not be rendered under the
	// requested kind.
	ErrCodeFormat ErrorCode = "FORMAT"
)

// Error is a structured artifact error.
//
// Duplicate-entry and sealed-artifact errors are programmer misuse and
// surface immediately; format errors mean the captured value has no
// rendering under the requested kind. None of them are retried.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Artifact names the affected artifact (empty for pure format errors).
	Artifact string

	// Entry names the affected entry, if any.
	Entry string

	// Err is the underlying cause (format errors only).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Artifact != "" && e.Entry != "":
		return fmt.Sprintf("%s: %s (artifact=%s, entry=%s)", e.Code, e.Message, e.Artifact, e.Entry)
	case e.Entry != "":
		return fmt.Sprintf("%s: %s (entry=%s)", e.Code, e.Message, e.Entry)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsDuplicateEntry reports whether err is a duplicate-entry error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateEntry(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeDuplicateEntry
	}
	return false
}

// IsSealed reports whether err is a sealed-artifact error.
func IsSealed(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeSealed
	}
	return false
}

// IsFormat reports whether err is a format error.
func IsFormat(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeFormat
	}
	return false
}

// newDuplicateEntryError creates an Error for a repeated entry name.
func newDuplicateEntryError(artifactName, entry string) *Error {
	return &Error{
		Code:     ErrCodeDuplicateEntry,
		Message:  "entry name already present in artifact",
		Artifact: artifactName,
		Entry:    entry,
	}
}

// newSealedError creates an Error for an insert after Seal.
func newSealedError(artifactName, entry string) *Error {
	return &Error{
		Code:     ErrCodeSealed,
		Message:  "artifact is sealed and accepts no further entries",
		Artifact: artifactName,
		Entry:    entry,
	}
}

// newFormatError creates an Error for an unrenderable value.
func newFormatError(kind Kind, cause error) *Error {
	return &Error{
		Code:    ErrCodeFormat,
		Message: fmt.Sprintf("value cannot be rendered with kind %q", kind),
		Err:     cause,
	}
}
