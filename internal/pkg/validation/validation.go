// Package validation runs a command's rules before its handler and turns failures into one
// aggregated ValidationError. A handler wrapped with Wrap is never invoked while any rule fails.
package validation

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

// Validator checks one command. A returned error aborts validation; failures are collected.
type Validator[C any] interface {
	Validate(ctx context.Context, cmd C) ([]aggregates.Failure, error)
}

// HandlerFunc executes a command.
type HandlerFunc[C, R any] func(ctx context.Context, cmd C) (R, error)

// fieldScoped validators are skipped once their field already failed.
type fieldScoped interface {
	field() string
}

// Pipeline runs validators in order.
type Pipeline[C any] struct {
	op         string
	validators []Validator[C]
}

func NewPipeline[C any](op string, validators ...Validator[C]) *Pipeline[C] {
	return &Pipeline[C]{op: op, validators: validators}
}

// Check returns a *aggregates.ValidationError when any rule failed.
func (p *Pipeline[C]) Check(ctx context.Context, cmd C) error {
	var failures []aggregates.Failure
	failed := map[string]bool{}
	for _, v := range p.validators {
		if fs, ok := v.(fieldScoped); ok && failed[fs.field()] {
			continue
		}
		out, err := v.Validate(ctx, cmd)
		if err != nil {
			return err
		}
		for _, f := range out {
			failed[f.Field] = true
		}
		failures = append(failures, out...)
	}
	return aggregates.NewValidationError(p.op, failures)
}

// Wrap composes validation in front of h.
func Wrap[C, R any](p *Pipeline[C], h HandlerFunc[C, R]) HandlerFunc[C, R] {
	return func(ctx context.Context, cmd C) (R, error) {
		if err := p.Check(ctx, cmd); err != nil {
			var zero R
			return zero, err
		}
		return h(ctx, cmd)
	}
}

// Messages maps "GoField.tag" to the message reported for that failure.
type Messages map[string]string

type structRules[C any] struct {
	messages Messages
}

// Struct validates the `validate` tags on a command struct. Failures are reported under the
// field's json name; only the first failing tag of each field is reported.
func Struct[C any](messages Messages) Validator[C] {
	return structRules[C]{messages: messages}
}

func (s structRules[C]) Validate(_ context.Context, cmd C) ([]aggregates.Failure, error) {
	err := engine().Struct(cmd)
	if err == nil {
		return nil, nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	out := make([]aggregates.Failure, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := s.messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		out = append(out, aggregates.Failure{Field: fe.Field(), Message: msg})
	}
	return out, nil
}

type asyncRule[C any] struct {
	name    string
	message string
	check   func(ctx context.Context, cmd C) (bool, error)
}

// Must adds a rule that may call out to storage. It is skipped when field already failed an
// earlier rule; check returns false to reject.
func Must[C any](field, message string, check func(ctx context.Context, cmd C) (bool, error)) Validator[C] {
	return asyncRule[C]{name: field, message: message, check: check}
}

func (r asyncRule[C]) field() string { return r.name }

func (r asyncRule[C]) Validate(ctx context.Context, cmd C) ([]aggregates.Failure, error) {
	ok, err := r.check(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	return []aggregates.Failure{{Field: r.name, Message: r.message}}, nil
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required."
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters."
	case "email":
		return "A valid email address is required."
	default:
		return fe.Field() + " is invalid."
	}
}

var (
	engineOnce sync.Once
	engineInst *validator.Validate
)

func engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		engineInst = v
	})
	return engineInst
}
