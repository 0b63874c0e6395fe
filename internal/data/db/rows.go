package db

// ClientRow is the persisted shape of a client.
type ClientRow struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;type:varchar(200);not null;index:idx_clients_name"`
	ClientCode string `gorm:"column:client_code;type:char(6);not null;uniqueIndex:idx_clients_client_code"`
}

func (ClientRow) TableName() string { return "clients" }

// ContactRow is the persisted shape of a contact. Lookups by full name hit the composite index.
// Email uniqueness ignores case and is enforced by idx_contacts_email_lower, see
// ensureEmailIndex.
type ContactRow struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;type:varchar(100);not null;index:idx_contacts_full_name,priority:2"`
	Surname string `gorm:"column:surname;type:varchar(100);not null;index:idx_contacts_full_name,priority:1"`
	Email   string `gorm:"column:email;type:varchar(254);not null"`
}

func (ContactRow) TableName() string { return "contacts" }

// ClientContactRow is one row of the join table. The table itself is created by
// EnsureLinkTable because its cascading foreign keys are declared inline.
type ClientContactRow struct {
	ClientID  int64 `gorm:"column:client_id;primaryKey;autoIncrement:false"`
	ContactID int64 `gorm:"column:contact_id;primaryKey;autoIncrement:false"`
}

func (ClientContactRow) TableName() string { return "client_contacts" }
