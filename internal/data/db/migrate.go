package db

import (
	"fmt"

	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ClientRow{},
		&ContactRow{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := ensureEmailIndex(db); err != nil {
		return err
	}
	return EnsureLinkTable(db)
}

// ensureEmailIndex replaces the case-sensitive email index of older schemas with a unique
// index on lower(email). Both Postgres and sqlite accept the expression form.
func ensureEmailIndex(db *gorm.DB) error {
	if err := db.Exec(`DROP INDEX IF EXISTS idx_contacts_email;`).Error; err != nil {
		return fmt.Errorf("drop idx_contacts_email: %w", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email_lower ON contacts (lower(email));`).Error; err != nil {
		return fmt.Errorf("index contacts email: %w", err)
	}
	return nil
}

// EnsureLinkTable creates client_contacts with cascading foreign keys. The statement is
// portable between Postgres and sqlite, which cannot add constraints after the fact.
func EnsureLinkTable(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS client_contacts (
			client_id BIGINT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			contact_id BIGINT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			PRIMARY KEY (client_id, contact_id)
		);
	`).Error; err != nil {
		return fmt.Errorf("create client_contacts: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_client_contacts_contact_id ON client_contacts(contact_id);`).Error; err != nil {
		return fmt.Errorf("index client_contacts: %w", err)
	}
	return nil
}
