package crm

import (
	"context"

	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

// ClientRepository is the client side of persistence. Lookups return (nil, nil) when the id
// does not resolve.
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	// GetByIDWithContacts loads the client together with its links and linked contacts.
	GetByIDWithContacts(ctx context.Context, id int64) (*domain.Client, error)
	// GetAll loads every client together with its links.
	GetAll(ctx context.Context) ([]*domain.Client, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// Add stages a new client; it is inserted and given its id on Commit.
	Add(ctx context.Context, client *domain.Client) error
}

// ContactRepository is the contact side of persistence. Lookups return (nil, nil) when the id
// does not resolve.
type ContactRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Contact, error)
	// GetByIDWithClients loads the contact together with its links and linked clients.
	GetByIDWithClients(ctx context.Context, id int64) (*domain.Contact, error)
	// GetAll loads every contact together with its links.
	GetAll(ctx context.Context) ([]*domain.Contact, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Add stages a new contact; it is inserted and given its id on Commit.
	Add(ctx context.Context, contact *domain.Contact) error
}

// UnitOfWork commits every staged insert and link change made through its repositories.
type UnitOfWork interface {
	// Commit returns the number of affected records.
	Commit(ctx context.Context) (int, error)
}

// Session is one unit of work together with the repositories reading inside it.
type Session interface {
	UnitOfWork
	Clients() ClientRepository
	Contacts() ContactRepository
	// Rollback discards staged changes. It is a no-op after Commit.
	Rollback() error
}

// Store opens sessions.
type Store interface {
	Begin(ctx context.Context) (Session, error)
}

// Locker serializes work on a key across callers.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
