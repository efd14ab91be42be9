package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned for lookups and deletes of absent sessions.
var ErrSessionNotFound = errors.New("session not found")

// ErrLectureNotFound is returned when no lecture matches the requested id.
var ErrLectureNotFound = errors.New("lecture not found")

// ValidationError indicates a caller-fixable bad request. No side effects
// have been performed when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError indicates a required credential or setting was absent
// at startup. The affected subsystem degrades; the process may continue.
type ConfigurationError struct {
	Subsystem string
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subsystem, e.Message)
}

// UpstreamError wraps a failed external service call. When the orchestrator
// exhausts its one fallback attempt, the triggering cause is preserved here
// for logging.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
