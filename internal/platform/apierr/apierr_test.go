package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

func TestFromErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", aggregates.InvalidArgument("op", "bad"), http.StatusBadRequest},
		{"validation", aggregates.NewValidationError("op", []aggregates.Failure{{Field: "name", Message: "x"}}), http.StatusBadRequest},
		{"not found", fmt.Errorf("wrapped: %w", aggregates.NotFound("op", "Client with ID 1 not found.")), http.StatusNotFound},
		{"invariant", aggregates.InvariantViolation("op", "dup"), http.StatusConflict},
		{"conflict", aggregates.Conflict("op", "dup", nil), http.StatusConflict},
		{"exhausted", aggregates.ResourceExhausted("op", "full"), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromError(tc.err).Status; got != tc.want {
				t.Fatalf("status: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	e := FromError(errors.New("pq: password authentication failed"))
	if e.Message() != "internal server error" {
		t.Fatalf("unexpected message %q", e.Message())
	}
	e = FromError(aggregates.NotFound("op", "Contact with ID 7 not found."))
	if e.Message() != "Contact with ID 7 not found." {
		t.Fatalf("unexpected message %q", e.Message())
	}
}

func TestFromErrorCarriesFailures(t *testing.T) {
	err := aggregates.NewValidationError("op", []aggregates.Failure{{Field: "email", Message: "Email is required."}})
	e := FromError(err)
	if len(e.Failures) != 1 || e.Failures[0].Field != "email" {
		t.Fatalf("unexpected failures %+v", e.Failures)
	}
}
