package memstore

import (
	"context"

	"github.com/yungbote/clientcontacts-backend/internal/data/tracking"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

type clientRepo struct {
	s *session
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.get(ctx, id, false)
}

func (r *clientRepo) GetByIDWithContacts(ctx context.Context, id int64) (*domain.Client, error) {
	return r.get(ctx, id, true)
}

func (r *clientRepo) get(ctx context.Context, id int64, withLinks bool) (*domain.Client, error) {
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()

	c, err := st.restoreClient(id)
	if err != nil || c == nil {
		return nil, err
	}
	if withLinks {
		if err := st.attachContacts([]*domain.Client{c}); err != nil {
			return nil, err
		}
	}
	r.s.tracker.TrackClient(c)
	return c, nil
}

func (r *clientRepo) GetAll(ctx context.Context) ([]*domain.Client, error) {
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*domain.Client, 0, len(st.clients))
	for _, id := range sortedIDs(st.clients) {
		c, err := st.restoreClient(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := st.attachContacts(out); err != nil {
		return nil, err
	}
	for _, c := range out {
		r.s.tracker.TrackClient(c)
	}
	return out, nil
}

func (r *clientRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := r.s.check(ctx); err != nil {
		return false, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, row := range st.clients {
		if row.code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *clientRepo) Add(ctx context.Context, client *domain.Client) error {
	if err := r.s.check(ctx); err != nil {
		return err
	}
	return r.s.tracker.AddClient(client)
}

type contactRepo struct {
	s *session
}

func (r *contactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	return r.get(ctx, id, false)
}

func (r *contactRepo) GetByIDWithClients(ctx context.Context, id int64) (*domain.Contact, error) {
	return r.get(ctx, id, true)
}

func (r *contactRepo) get(ctx context.Context, id int64, withLinks bool) (*domain.Contact, error) {
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()

	c, err := st.restoreContact(id)
	if err != nil || c == nil {
		return nil, err
	}
	if withLinks {
		if err := st.attachClients([]*domain.Contact{c}); err != nil {
			return nil, err
		}
	}
	r.s.tracker.TrackContact(c)
	return c, nil
}

func (r *contactRepo) GetAll(ctx context.Context) ([]*domain.Contact, error) {
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*domain.Contact, 0, len(st.contacts))
	for _, id := range sortedIDs(st.contacts) {
		c, err := st.restoreContact(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := st.attachClients(out); err != nil {
		return nil, err
	}
	for _, c := range out {
		r.s.tracker.TrackContact(c)
	}
	return out, nil
}

func (r *contactRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := r.s.check(ctx); err != nil {
		return false, err
	}
	st := r.s.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	key := domain.EmailKey(email)
	for _, row := range st.contacts {
		if domain.EmailKey(row.email) == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *contactRepo) Add(ctx context.Context, contact *domain.Contact) error {
	if err := r.s.check(ctx); err != nil {
		return err
	}
	return r.s.tracker.AddContact(contact)
}

// attachContacts restores the links of clients; a contact linked to several of them is
// restored once. Callers hold st.mu.
func (st *Store) attachContacts(clients []*domain.Client) error {
	byID := make(map[int64]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID()] = c
	}
	contacts := map[int64]*domain.Contact{}
	for _, p := range st.linksWhere(func(p tracking.Pair) bool { return byID[p.ClientID] != nil }) {
		contact, ok := contacts[p.ContactID]
		if !ok {
			var err error
			if contact, err = st.restoreContact(p.ContactID); err != nil {
				return err
			}
			contacts[p.ContactID] = contact
		}
		if contact == nil {
			continue
		}
		if err := domain.RestoreLink(byID[p.ClientID], contact); err != nil {
			return err
		}
	}
	return nil
}

// attachClients mirrors attachContacts.
func (st *Store) attachClients(contacts []*domain.Contact) error {
	byID := make(map[int64]*domain.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID()] = c
	}
	clients := map[int64]*domain.Client{}
	for _, p := range st.linksWhere(func(p tracking.Pair) bool { return byID[p.ContactID] != nil }) {
		client, ok := clients[p.ClientID]
		if !ok {
			var err error
			if client, err = st.restoreClient(p.ClientID); err != nil {
				return err
			}
			clients[p.ClientID] = client
		}
		if client == nil {
			continue
		}
		if err := domain.RestoreLink(client, byID[p.ContactID]); err != nil {
			return err
		}
	}
	return nil
}
