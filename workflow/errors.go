package workflow

import (
	"errors"
	"fmt"
)

// Workflow failures are typed so callers can map them onto HTTP responses
// without string matching.
var (
	// ErrInvalidTransition means the requested event is not a legal
	// successor of the journal's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized means the actor's role or identity does not permit
	// the event, regardless of whether the transition would otherwise be
	// legal.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a missing or malformed payload field. It is
// surfaced inline next to the offending field; no mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
