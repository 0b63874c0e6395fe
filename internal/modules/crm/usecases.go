package crm

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	"github.com/yungbote/clientcontacts-backend/internal/pkg/validation"
	"github.com/yungbote/clientcontacts-backend/internal/platform/ctxutil"
	"github.com/yungbote/clientcontacts-backend/internal/platform/locks"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log   *logger.Logger
	Store Store
	// Locker serializes client code generation per prefix.
	Locker Locker
}

type Usecases struct {
	deps   UsecasesDeps
	tracer trace.Tracer

	createClient  validation.HandlerFunc[CreateClientCommand, int64]
	createContact validation.HandlerFunc[CreateContactCommand, int64]
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("module", "crm")
	if deps.Locker == nil {
		deps.Locker = locks.NewLocal()
	}
	u := Usecases{
		deps:   deps,
		tracer: otel.Tracer("github.com/yungbote/clientcontacts-backend/internal/modules/crm"),
	}
	u.createClient = validation.Wrap[CreateClientCommand, int64](createClientRules(), u.handleCreateClient)
	u.createContact = validation.Wrap[CreateContactCommand, int64](createContactRules(deps.Store), u.handleCreateContact)
	return u
}

// inSession runs fn inside one unit of work. Anything fn did not commit is rolled back.
func (u Usecases) inSession(ctx context.Context, op string, fn func(s Session) error) error {
	s, err := u.deps.Store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin session: %w", op, err)
	}
	defer func() {
		if rbErr := s.Rollback(); rbErr != nil {
			u.log(ctx).Warn("session rollback failed", "op", op, "error", rbErr)
		}
	}()
	return fn(s)
}

// span starts a use-case span; finish records err on it.
func (u Usecases) span(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, span := u.tracer.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(aggregates.CodeOf(err)))
		}
		span.End()
	}
}

func (u Usecases) log(ctx context.Context) *logger.Logger {
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		return u.deps.Log.With("request_id", td.RequestID)
	}
	return u.deps.Log
}
