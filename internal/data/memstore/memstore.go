// Package memstore keeps clients, contacts and links in process memory. It backs the
// "memory" storage driver and the use-case tests, and honors the same uniqueness rules as the
// SQL schema.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yungbote/clientcontacts-backend/internal/data/tracking"
	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
	ports "github.com/yungbote/clientcontacts-backend/internal/modules/crm"
)

var errSessionFinished = errors.New("session already committed or rolled back")

type clientRow struct {
	name string
	code string
}

type contactRow struct {
	name    string
	surname string
	email   string
}

type Store struct {
	mu       sync.RWMutex
	nextID   int64
	clients  map[int64]clientRow
	contacts map[int64]contactRow
	// links maps a pair to its insertion sequence.
	links   map[tracking.Pair]int64
	linkSeq int64
}

func New() *Store {
	return &Store{
		clients:  map[int64]clientRow{},
		contacts: map[int64]contactRow{},
		links:    map[tracking.Pair]int64{},
	}
}

func (st *Store) Begin(ctx context.Context) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &session{st: st}
	s.clients = &clientRepo{s: s}
	s.contacts = &contactRepo{s: s}
	return s, nil
}

type session struct {
	st       *Store
	tracker  tracking.Tracker
	clients  *clientRepo
	contacts *contactRepo
	done     bool
}

func (s *session) Clients() ports.ClientRepository   { return s.clients }
func (s *session) Contacts() ports.ContactRepository { return s.contacts }

func (s *session) check(ctx context.Context) error {
	if s.done {
		return errSessionFinished
	}
	return ctx.Err()
}

func (s *session) Rollback() error {
	s.done = true
	s.tracker.Reset()
	return nil
}

// Commit validates every staged change before applying any, so a failure leaves the store
// untouched.
func (s *session) Commit(ctx context.Context) (int, error) {
	const op = "memstore.Commit"
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = s.Rollback() }()

	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	newClients := s.tracker.NewClients()
	newContacts := s.tracker.NewContacts()
	added, removed := s.tracker.LinkChanges()

	codes := map[string]bool{}
	for _, row := range st.clients {
		codes[row.code] = true
	}
	for _, c := range newClients {
		if codes[c.ClientCode()] {
			return 0, aggregates.Conflict(op, fmt.Sprintf("Client code '%s' is already in use.", c.ClientCode()), nil)
		}
		codes[c.ClientCode()] = true
	}
	emails := map[string]bool{}
	for _, row := range st.contacts {
		emails[domain.EmailKey(row.email)] = true
	}
	for _, c := range newContacts {
		key := domain.EmailKey(c.Email())
		if emails[key] {
			return 0, aggregates.Conflict(op, "This email address is already in use.", nil)
		}
		emails[key] = true
	}
	for _, p := range added {
		_, clientOK := st.clients[p.ClientID]
		_, contactOK := st.contacts[p.ContactID]
		_, linked := st.links[p]
		if !clientOK || !contactOK || linked {
			return 0, aggregates.Conflict(op, fmt.Sprintf("Contact %d could not be linked to client %d.", p.ContactID, p.ClientID), nil)
		}
	}

	affected := 0
	for _, c := range newClients {
		st.nextID++
		if err := c.AssignID(st.nextID); err != nil {
			return 0, err
		}
		st.clients[st.nextID] = clientRow{name: c.Name(), code: c.ClientCode()}
		affected++
	}
	for _, c := range newContacts {
		st.nextID++
		if err := c.AssignID(st.nextID); err != nil {
			return 0, err
		}
		st.contacts[st.nextID] = contactRow{name: c.Name(), surname: c.Surname(), email: c.Email()}
		affected++
	}
	for _, p := range added {
		st.linkSeq++
		st.links[p] = st.linkSeq
		affected++
	}
	for _, p := range removed {
		if _, ok := st.links[p]; ok {
			delete(st.links, p)
			affected++
		}
	}
	return affected, nil
}

// linksWhere returns matching pairs in insertion order. Callers hold st.mu.
func (st *Store) linksWhere(match func(tracking.Pair) bool) []tracking.Pair {
	var out []tracking.Pair
	for p := range st.links {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return st.links[out[i]] < st.links[out[j]] })
	return out
}

func (st *Store) restoreClient(id int64) (*domain.Client, error) {
	row, ok := st.clients[id]
	if !ok {
		return nil, nil
	}
	return domain.RestoreClient(id, row.name, row.code)
}

func (st *Store) restoreContact(id int64) (*domain.Contact, error) {
	row, ok := st.contacts[id]
	if !ok {
		return nil, nil
	}
	return domain.RestoreContact(id, row.name, row.surname, row.email)
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
