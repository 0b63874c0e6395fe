package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

type Error struct {
	Status   int
	Code     string
	Err      error
	Failures []aggregates.Failure
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the client-facing text. Internal errors never leak their cause.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.Status >= http.StatusInternalServerError {
		return "internal server error"
	}
	var domainErr *aggregates.Error
	if errors.As(e.Err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	var vErr *aggregates.ValidationError
	if errors.As(e.Err, &vErr) {
		return "One or more validation errors occurred."
	}
	return e.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a domain error onto an HTTP status and code.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := aggregates.CodeOf(err)
	out := &Error{Status: statusOf(code), Code: string(code), Err: err}
	if code == aggregates.CodeValidationFailed {
		out.Failures = aggregates.FailuresOf(err)
	}
	return out
}

func statusOf(code aggregates.ErrorCode) int {
	switch code {
	case aggregates.CodeInvalidArgument, aggregates.CodeValidationFailed:
		return http.StatusBadRequest
	case aggregates.CodeNotFound:
		return http.StatusNotFound
	case aggregates.CodeInvariantViolation, aggregates.CodeConflict:
		return http.StatusConflict
	case aggregates.CodeResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
