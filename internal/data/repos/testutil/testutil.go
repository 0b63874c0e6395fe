package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// Postgres returns a migrated shared database, skipping the test when TEST_POSTGRES_DSN is
// unset.
func Postgres(tb testing.TB) *gorm.DB {
	tb.Helper()

	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}

		var err error
		pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			TranslateError:                           true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			pgErr = err
			return
		}
		pgErr = db.AutoMigrateAll(pgDB)
	})

	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

// Sqlite returns a fresh database file private to the test, migrated with gorm AutoMigrate.
// It skips when the driver is unavailable, e.g. in builds without cgo.
func Sqlite(tb testing.TB) *gorm.DB {
	tb.Helper()
	return sqliteWith(tb, db.MigratorGorm)
}

// SqliteVersioned is Sqlite with the schema built by the goose migrations.
func SqliteVersioned(tb testing.TB) *gorm.DB {
	tb.Helper()
	return sqliteWith(tb, db.MigratorGoose)
}

func sqliteWith(tb testing.TB, migrator string) *gorm.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "crm.db")
	gdb, err := db.OpenSqlite(path, nil)
	if err != nil {
		tb.Skipf("sqlite unavailable: %v", err)
	}
	if err := gdb.Exec("SELECT 1").Error; err != nil {
		tb.Skipf("sqlite unavailable: %v", err)
	}
	if err := db.Migrate(context.Background(), gdb, migrator); err != nil {
		_ = db.Close(gdb)
		tb.Fatalf("migrate sqlite (%s): %v", migrator, err)
	}
	tb.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// Truncate empties the CRM tables; Postgres tests share one database.
func Truncate(tb testing.TB, gdb *gorm.DB) {
	tb.Helper()
	if err := gdb.Exec("TRUNCATE client_contacts, contacts, clients RESTART IDENTITY CASCADE").Error; err != nil {
		tb.Fatalf("truncate: %v", err)
	}
}
