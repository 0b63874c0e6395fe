// Package tracking records which aggregates a unit of work loaded or staged, and derives the
// link rows to insert or delete on commit by diffing each aggregate's links against what it
// held when it was loaded.
package tracking

import (
	"fmt"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

// Pair is the composite key of one client_contacts row.
type Pair struct {
	ClientID  int64
	ContactID int64
}

type trackedClient struct {
	client *domain.Client
	loaded map[int64]struct{}
}

type trackedContact struct {
	contact *domain.Contact
	loaded  map[int64]struct{}
}

type Tracker struct {
	clients     []trackedClient
	contacts    []trackedContact
	newClients  []*domain.Client
	newContacts []*domain.Contact
}

// TrackClient snapshots the links c holds right now.
func (t *Tracker) TrackClient(c *domain.Client) {
	if c == nil {
		return
	}
	t.clients = append(t.clients, trackedClient{client: c, loaded: toSet(c.LinkedContactIDs())})
}

// TrackContact snapshots the links c holds right now.
func (t *Tracker) TrackContact(c *domain.Contact) {
	if c == nil {
		return
	}
	t.contacts = append(t.contacts, trackedContact{contact: c, loaded: toSet(c.LinkedClientIDs())})
}

func (t *Tracker) AddClient(c *domain.Client) error {
	const op = "tracking.AddClient"
	if c == nil {
		return aggregates.InvalidArgument(op, "client is required")
	}
	if c.ID() != 0 {
		return aggregates.InvariantViolation(op, fmt.Sprintf("client %d is already stored", c.ID()))
	}
	for _, cur := range t.newClients {
		if cur == c {
			return aggregates.InvariantViolation(op, "client already added")
		}
	}
	t.newClients = append(t.newClients, c)
	return nil
}

func (t *Tracker) AddContact(c *domain.Contact) error {
	const op = "tracking.AddContact"
	if c == nil {
		return aggregates.InvalidArgument(op, "contact is required")
	}
	if c.ID() != 0 {
		return aggregates.InvariantViolation(op, fmt.Sprintf("contact %d is already stored", c.ID()))
	}
	for _, cur := range t.newContacts {
		if cur == c {
			return aggregates.InvariantViolation(op, "contact already added")
		}
	}
	t.newContacts = append(t.newContacts, c)
	return nil
}

func (t *Tracker) NewClients() []*domain.Client   { return t.newClients }
func (t *Tracker) NewContacts() []*domain.Contact { return t.newContacts }

// LinkChanges returns the pairs to insert and to delete, in the order they were first seen.
// A pair seen from both sides is reported once.
func (t *Tracker) LinkChanges() (added, removed []Pair) {
	seenAdded := map[Pair]bool{}
	seenRemoved := map[Pair]bool{}
	add := func(p Pair) {
		if !seenAdded[p] {
			seenAdded[p] = true
			added = append(added, p)
		}
	}
	remove := func(p Pair) {
		if !seenRemoved[p] {
			seenRemoved[p] = true
			removed = append(removed, p)
		}
	}

	for _, tc := range t.clients {
		current := tc.client.LinkedContactIDs()
		for _, id := range current {
			if _, ok := tc.loaded[id]; !ok {
				add(Pair{ClientID: tc.client.ID(), ContactID: id})
			}
		}
		currentSet := toSet(current)
		for id := range tc.loaded {
			if _, ok := currentSet[id]; !ok {
				remove(Pair{ClientID: tc.client.ID(), ContactID: id})
			}
		}
	}
	for _, tc := range t.contacts {
		current := tc.contact.LinkedClientIDs()
		for _, id := range current {
			if _, ok := tc.loaded[id]; !ok {
				add(Pair{ClientID: id, ContactID: tc.contact.ID()})
			}
		}
		currentSet := toSet(current)
		for id := range tc.loaded {
			if _, ok := currentSet[id]; !ok {
				remove(Pair{ClientID: id, ContactID: tc.contact.ID()})
			}
		}
	}
	return added, removed
}

// Reset forgets everything; used once a unit of work finished.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

func toSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
