package crm

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/clientcontacts-backend/internal/data/repos/testutil"
	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
	ports "github.com/yungbote/clientcontacts-backend/internal/modules/crm"
	"github.com/yungbote/clientcontacts-backend/internal/observability"
)

func TestStoreSqlite(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) *gorm.DB { return testutil.Sqlite(t) })
}

func TestStoreSqliteVersioned(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) *gorm.DB { return testutil.SqliteVersioned(t) })
}

func TestStorePostgres(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) *gorm.DB {
		gdb := testutil.Postgres(t)
		testutil.Truncate(t, gdb)
		return gdb
	})
}

func runStoreSuite(t *testing.T, open func(t *testing.T) *gorm.DB) {
	t.Run("insert assigns ids", func(t *testing.T) { testInsertAssignsIDs(t, NewStore(open(t), testutil.Logger(t))) })
	t.Run("link and unlink", func(t *testing.T) { testLinkAndUnlink(t, NewStore(open(t), testutil.Logger(t))) })
	t.Run("unique violations", func(t *testing.T) { testUniqueViolations(t, NewStore(open(t), testutil.Logger(t))) })
	t.Run("rollback discards", func(t *testing.T) { testRollbackDiscards(t, NewStore(open(t), testutil.Logger(t))) })
	t.Run("email uniqueness ignores case", func(t *testing.T) { testEmailIgnoresCase(t, NewStore(open(t), testutil.Logger(t))) })
}

func begin(t *testing.T, store *Store) ports.Session {
	t.Helper()
	s, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	t.Cleanup(func() { _ = s.Rollback() })
	return s
}

func seed(t *testing.T, store *Store) (*domain.Client, *domain.Contact) {
	t.Helper()
	ctx := context.Background()
	s := begin(t, store)
	client, err := domain.NewClient("Acme Corp", "ACM001")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	contact, err := domain.NewContact("Jane", "Doe", "jane@x.com")
	if err != nil {
		t.Fatalf("NewContact: %v", err)
	}
	if err := s.Clients().Add(ctx, client); err != nil {
		t.Fatalf("Add client: %v", err)
	}
	if err := s.Contacts().Add(ctx, contact); err != nil {
		t.Fatalf("Add contact: %v", err)
	}
	n, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if n != 2 {
		t.Fatalf("Commit: expected 2 affected, got %d", n)
	}
	return client, contact
}

func testInsertAssignsIDs(t *testing.T, store *Store) {
	ctx := context.Background()
	client, contact := seed(t, store)
	if client.ID() <= 0 || contact.ID() <= 0 {
		t.Fatalf("expected ids assigned, got client=%d contact=%d", client.ID(), contact.ID())
	}

	s := begin(t, store)
	got, err := s.Clients().GetByID(ctx, client.ID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ClientCode() != "ACM001" || got.Name() != "Acme Corp" {
		t.Fatalf("GetByID: unexpected %+v", got)
	}
	missing, err := s.Clients().GetByID(ctx, client.ID()+100)
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: got %v, %v", missing, err)
	}
	exists, err := s.Clients().CodeExists(ctx, "ACM001")
	if err != nil || !exists {
		t.Fatalf("CodeExists: got %v, %v", exists, err)
	}
	exists, err = s.Contacts().EmailExists(ctx, "nobody@x.com")
	if err != nil || exists {
		t.Fatalf("EmailExists: got %v, %v", exists, err)
	}
}

func testLinkAndUnlink(t *testing.T, store *Store) {
	ctx := context.Background()
	client, contact := seed(t, store)

	s := begin(t, store)
	c, err := s.Clients().GetByIDWithContacts(ctx, client.ID())
	if err != nil {
		t.Fatalf("GetByIDWithContacts: %v", err)
	}
	ct, err := s.Contacts().GetByID(ctx, contact.ID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if err := c.LinkContact(ct); err != nil {
		t.Fatalf("LinkContact: %v", err)
	}
	n, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit link: %v", err)
	}
	if n != 1 {
		t.Fatalf("Commit link: expected 1 affected, got %d", n)
	}

	s = begin(t, store)
	loaded, err := s.Contacts().GetByIDWithClients(ctx, contact.ID())
	if err != nil {
		t.Fatalf("GetByIDWithClients: %v", err)
	}
	links := loaded.ClientContacts()
	if len(links) != 1 || links[0].Client() == nil || links[0].Client().Name() != "Acme Corp" {
		t.Fatalf("expected linked Acme Corp, got %+v", links)
	}
	all, err := s.Clients().GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].ContactCount() != 1 {
		t.Fatalf("GetAll: unexpected %+v", all)
	}
	if err := loaded.UnlinkClient(client.ID()); err != nil {
		t.Fatalf("UnlinkClient: %v", err)
	}
	n, err = s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit unlink: %v", err)
	}
	if n != 1 {
		t.Fatalf("Commit unlink: expected 1 affected, got %d", n)
	}

	s = begin(t, store)
	c, err = s.Clients().GetByIDWithContacts(ctx, client.ID())
	if err != nil {
		t.Fatalf("GetByIDWithContacts: %v", err)
	}
	if c.ContactCount() != 0 {
		t.Fatalf("expected no links after unlink, got %d", c.ContactCount())
	}
}

func testUniqueViolations(t *testing.T, store *Store) {
	ctx := context.Background()
	seed(t, store)

	s := begin(t, store)
	dup, _ := domain.NewContact("Janet", "Doe", "jane@x.com")
	if err := s.Contacts().Add(ctx, dup); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Commit(ctx); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
	if dup.ID() != 0 {
		t.Fatalf("expected duplicate to stay unsaved")
	}

	s = begin(t, store)
	dupClient, _ := domain.NewClient("Acme Two", "ACM001")
	if err := s.Clients().Add(ctx, dupClient); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Commit(ctx); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}
}

func testEmailIgnoresCase(t *testing.T, store *Store) {
	ctx := context.Background()
	seed(t, store)

	s := begin(t, store)
	for _, email := range []string{"jane@x.com", "JANE@x.com", "Jane@X.Com"} {
		exists, err := s.Contacts().EmailExists(ctx, email)
		if err != nil {
			t.Fatalf("EmailExists(%q): %v", email, err)
		}
		if !exists {
			t.Fatalf("EmailExists(%q): expected true", email)
		}
	}
	if err := s.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	s = begin(t, store)
	dup, _ := domain.NewContact("Janet", "Doe", "JANE@x.com")
	if err := s.Contacts().Add(ctx, dup); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Commit(ctx); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("expected conflict for email differing only in case, got %v", err)
	}

	s = begin(t, store)
	all, err := s.Contacts().GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].Email() != "jane@x.com" {
		t.Fatalf("expected only the original contact, got %d", len(all))
	}
}

func testRollbackDiscards(t *testing.T, store *Store) {
	ctx := context.Background()
	s := begin(t, store)
	client, _ := domain.NewClient("Beta", "BET001")
	if err := s.Clients().Add(ctx, client); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if err := s.Rollback(); err != nil {
		t.Fatalf("second Rollback: %v", err)
	}
	if _, err := s.Commit(ctx); err == nil {
		t.Fatalf("expected Commit after Rollback to fail")
	}

	s = begin(t, store)
	all, err := s.Clients().GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected nothing persisted, got %d clients", len(all))
	}
}

func TestCommitReportsToHooks(t *testing.T) {
	metrics := observability.NewMetrics()
	store := NewStore(testutil.Sqlite(t), testutil.Logger(t)).WithHooks(NewObservabilityHooks(metrics))
	seed(t, store)

	ctx := context.Background()
	s := begin(t, store)
	dup, err := domain.NewClient("Acme Again", "ACM001")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := s.Clients().Add(ctx, dup); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Commit(ctx); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if got := metrics.StoreOperations("crm.session.Commit", "success"); got != 1 {
		t.Fatalf("expected 1 successful commit, got %v", got)
	}
	if got := metrics.StoreOperations("crm.session.Commit", string(aggregates.CodeConflict)); got != 1 {
		t.Fatalf("expected 1 conflicting commit, got %v", got)
	}
}
