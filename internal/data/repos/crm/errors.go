package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// mapError maps storage failures onto domain error codes. message is the client-facing text
// used when a unique or foreign key constraint rejected the write.
func mapError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *aggregates.Error
	if errors.As(err, &domainErr) {
		return err
	}
	switch {
	case isUniqueViolation(err), isForeignKeyViolation(err):
		return aggregates.Conflict(op, message, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// statusOf labels an operation outcome for metrics.
func statusOf(err error) string {
	if err == nil {
		return "success"
	}
	return string(aggregates.CodeOf(err))
}
