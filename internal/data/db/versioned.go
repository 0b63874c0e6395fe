package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

const (
	MigratorGorm  = "gorm"
	MigratorGoose = "goose"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Migrate brings the schema up to date with the chosen migrator: gorm AutoMigrate or the
// embedded goose migrations.
func Migrate(ctx context.Context, gdb *gorm.DB, migrator string) error {
	switch migrator {
	case "", MigratorGorm:
		return AutoMigrateAll(gdb.WithContext(ctx))
	case MigratorGoose:
		return MigrateVersioned(ctx, gdb)
	default:
		return fmt.Errorf("unknown migrator %q", migrator)
	}
}

// MigrateVersioned applies the pending goose migrations for the database's dialect.
func MigrateVersioned(ctx context.Context, gdb *gorm.DB) error {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch name := gdb.Dialector.Name(); name {
	case "postgres":
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case "sqlite":
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return fmt.Errorf("no versioned migrations for dialect %q", name)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect for migrations: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
