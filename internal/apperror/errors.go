// Package apperror defines the error taxonomy shared by the lifecycle,
// store and outbox packages. Handlers map these onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing caller input. It is never
// retried automatically; the caller must correct the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

// JobUnavailableError reports a submission against a job listing that is
// closed, still a draft, past its deadline, or missing entirely.
type JobUnavailableError struct {
	JobID  string
	Reason string
}

func (e *JobUnavailableError) Error() string {
	return fmt.Sprintf("job %q unavailable: %s", e.JobID, e.Reason)
}

// TerminalStateError reports an attempted mutation of an application that
// already reached rejected or hired.
type TerminalStateError struct {
	ApplicationID string
	Status        string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("application %q is terminal (%s) and cannot change status", e.ApplicationID, e.Status)
}

// TransportError wraps a notification delivery failure. The dispatcher
// records it on the intent as status "failed" instead of propagating.
type TransportError struct {
	IntentID string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("delivery of intent %q failed: %v", e.IntentID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
