package aggregates

import (
	"errors"
	"strings"
)

// Failure is one rejected field rule.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every rule a command failed before any mutation ran.
type ValidationError struct {
	Op       string
	Failures []Failure
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Field+": "+f.Message)
	}
	msg := "validation failed"
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	if op := strings.TrimSpace(e.Op); op != "" {
		return op + ": " + msg
	}
	return msg
}

// NewValidationError returns nil when there are no failures.
func NewValidationError(op string, failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	out := make([]Failure, len(failures))
	copy(out, failures)
	return &ValidationError{Op: strings.TrimSpace(op), Failures: out}
}

// FailuresOf extracts field failures from err, or nil.
func FailuresOf(err error) []Failure {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return nil
	}
	return vErr.Failures
}
