package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

type signup struct {
	Name  string `json:"name" validate:"notblank,max=5"`
	Email string `json:"email" validate:"notblank,email"`
}

var signupMessages = Messages{
	"Name.notblank":  "Name is required.",
	"Name.max":       "Name is too long.",
	"Email.notblank": "Email is required.",
	"Email.email":    "Bad email.",
}

func TestPipeline_AggregatesStructFailures(t *testing.T) {
	p := NewPipeline[signup]("signup", Struct[signup](signupMessages))
	err := p.Check(context.Background(), signup{Name: "  ", Email: "nope"})

	failures := aggregates.FailuresOf(err)
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v (err=%v)", failures, err)
	}
	if failures[0] != (aggregates.Failure{Field: "name", Message: "Name is required."}) {
		t.Fatalf("unexpected first failure: %+v", failures[0])
	}
	if failures[1] != (aggregates.Failure{Field: "email", Message: "Bad email."}) {
		t.Fatalf("unexpected second failure: %+v", failures[1])
	}
	if !aggregates.IsCode(err, aggregates.CodeValidationFailed) {
		t.Fatalf("expected validation_failed code")
	}
}

func TestPipeline_MaxCountsRunes(t *testing.T) {
	p := NewPipeline[signup]("signup", Struct[signup](signupMessages))
	if err := p.Check(context.Background(), signup{Name: "ééééé", Email: "a@b.co"}); err != nil {
		t.Fatalf("five runes must pass max=5: %v", err)
	}
	err := p.Check(context.Background(), signup{Name: strings.Repeat("a", 6), Email: "a@b.co"})
	if f := aggregates.FailuresOf(err); len(f) != 1 || f[0].Message != "Name is too long." {
		t.Fatalf("unexpected failures: %+v", f)
	}
}

func TestPipeline_MustSkippedWhenFieldAlreadyFailed(t *testing.T) {
	calls := 0
	unique := Must[signup]("email", "Email taken.", func(context.Context, signup) (bool, error) {
		calls++
		return false, nil
	})
	p := NewPipeline[signup]("signup", Struct[signup](signupMessages), unique)

	err := p.Check(context.Background(), signup{Name: "ok", Email: ""})
	if calls != 0 {
		t.Fatalf("storage rule ran for an email that already failed")
	}
	if f := aggregates.FailuresOf(err); len(f) != 1 || f[0].Message != "Email is required." {
		t.Fatalf("unexpected failures: %+v", f)
	}

	err = p.Check(context.Background(), signup{Name: "ok", Email: "a@b.co"})
	if calls != 1 {
		t.Fatalf("expected storage rule to run once, ran %d", calls)
	}
	if f := aggregates.FailuresOf(err); len(f) != 1 || f[0] != (aggregates.Failure{Field: "email", Message: "Email taken."}) {
		t.Fatalf("unexpected failures: %+v", f)
	}
}

func TestPipeline_RuleErrorAborts(t *testing.T) {
	boom := errors.New("db down")
	p := NewPipeline[signup]("signup", Must[signup]("email", "x", func(context.Context, signup) (bool, error) {
		return false, boom
	}))
	if err := p.Check(context.Background(), signup{}); !errors.Is(err, boom) {
		t.Fatalf("expected rule error, got %v", err)
	}
}

func TestWrap_HandlerNotInvokedOnFailure(t *testing.T) {
	invoked := false
	h := Wrap[signup, int](NewPipeline[signup]("signup", Struct[signup](signupMessages)), func(context.Context, signup) (int, error) {
		invoked = true
		return 1, nil
	})

	if _, err := h(context.Background(), signup{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if invoked {
		t.Fatalf("handler invoked despite failing validation")
	}

	got, err := h(context.Background(), signup{Name: "Jane", Email: "jane@x.com"})
	if err != nil || got != 1 || !invoked {
		t.Fatalf("expected handler result 1, got %d err=%v invoked=%v", got, err, invoked)
	}
}
