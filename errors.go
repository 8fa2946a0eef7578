package egress

import (
	"errors"
	"fmt"
)

// SessionErrorCode categorizes session misuse errors.
type SessionErrorCode string

const (
	// ErrCodeDuplicateArtifact indicates an artifact name was requested
	// twice in one session.
	ErrCodeDuplicateArtifact SessionErrorCode = "DUPLICATE_ARTIFACT"

	// ErrCodeSessionClosed indicates a call on a closed session.
	ErrCodeSessionClosed SessionErrorCode = "SESSION_CLOSED"

	// ErrCodeInvalidName indicates an artifact name or namespace that
	// cannot map to a store path.
	ErrCodeInvalidName SessionErrorCode = "INVALID_NAME"
)

// SessionError is a structured session misuse error. These surface
// immediately at the offending call and are never retried.
type SessionError struct {
	// Code identifies the error category.
	Code SessionErrorCode

	// Message is a human-readable description.
	Message string

	// Artifact names the affected artifact, if any.
	Artifact string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("%s: %s (artifact=%s)", e.Code, e.Message, e.Artifact)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicateArtifact reports whether err is a duplicate-artifact error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateArtifact(err error) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDuplicateArtifact
	}
	return false
}

// IsSessionClosed reports whether err is a closed-session error.
func IsSessionClosed(err error) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == ErrCodeSessionClosed
	}
	return false
}

func newDuplicateArtifactError(name string) *SessionError {
	return &SessionError{
		Code:     ErrCodeDuplicateArtifact,
		Message:  "artifact name already used in this session",
		Artifact: name,
	}
}

func newSessionClosedError() *SessionError {
	return &SessionError{
		Code:    ErrCodeSessionClosed,
		Message: "session is closed",
	}
}

func newInvalidNameError(name string, cause error) *SessionError {
	return &SessionError{
		Code:     ErrCodeInvalidName,
		Message:  cause.Error(),
		Artifact: name,
	}
}
