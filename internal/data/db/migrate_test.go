package db

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func openTestSqlite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := OpenSqlite(filepath.Join(t.TempDir(), "schema.db"), nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := gdb.Exec("SELECT 1").Error; err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func TestMigratorsProduceEquivalentSchema(t *testing.T) {
	for _, migrator := range []string{MigratorGorm, MigratorGoose} {
		t.Run(migrator, func(t *testing.T) {
			gdb := openTestSqlite(t)
			ctx := context.Background()
			if err := Migrate(ctx, gdb, migrator); err != nil {
				t.Fatalf("Migrate: %v", err)
			}
			// Running twice must be a no-op.
			if err := Migrate(ctx, gdb, migrator); err != nil {
				t.Fatalf("Migrate again: %v", err)
			}

			m := gdb.Migrator()
			for _, table := range []string{"clients", "contacts", "client_contacts"} {
				if !m.HasTable(table) {
					t.Fatalf("missing table %s", table)
				}
			}
			for table, idx := range map[string]string{
				"clients":         "idx_clients_client_code",
				"contacts":        "idx_contacts_email_lower",
				"client_contacts": "idx_client_contacts_contact_id",
			} {
				if !m.HasIndex(table, idx) {
					t.Fatalf("missing index %s on %s", idx, table)
				}
			}

			if err := gdb.Create(&ClientRow{Name: "Acme", ClientCode: "ACM001"}).Error; err != nil {
				t.Fatalf("insert client: %v", err)
			}
			if err := gdb.Create(&ClientRow{Name: "Acme 2", ClientCode: "ACM001"}).Error; err == nil {
				t.Fatalf("expected unique violation on client_code")
			}
			if err := gdb.Create(&ContactRow{Name: "Jane", Surname: "Doe", Email: "jane@x.com"}).Error; err != nil {
				t.Fatalf("insert contact: %v", err)
			}
			if err := gdb.Create(&ContactRow{Name: "Jane", Surname: "Doe", Email: "Jane@X.com"}).Error; err == nil {
				t.Fatalf("expected unique violation on email differing only in case")
			}
			if m.HasIndex("contacts", "idx_contacts_email") {
				t.Fatalf("case-sensitive email index should be gone")
			}
			if err := gdb.Create(&ClientContactRow{ClientID: 1, ContactID: 42}).Error; err == nil {
				t.Fatalf("expected foreign key violation")
			}
		})
	}
}

func TestMigrateRejectsUnknownMigrator(t *testing.T) {
	gdb := openTestSqlite(t)
	if err := Migrate(context.Background(), gdb, "flyway"); err == nil {
		t.Fatalf("expected error for unknown migrator")
	}
}
