package crm

import (
	"context"
	"fmt"

	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

// GetAllClients lists every client ordered by name.
func (u Usecases) GetAllClients(ctx context.Context) (out []ClientListItem, err error) {
	const op = "crm.GetAllClients"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		clients, err := s.Clients().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = clientList(clients, nil)
		return nil
	})
	return out, err
}

// GetAllContacts lists every contact ordered by full name.
func (u Usecases) GetAllContacts(ctx context.Context) (out []ContactListItem, err error) {
	const op = "crm.GetAllContacts"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		contacts, err := s.Contacts().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = contactList(contacts, nil)
		return nil
	})
	return out, err
}

// GetClientByID returns the client with its linked contacts ordered by full name.
func (u Usecases) GetClientByID(ctx context.Context, id int64) (out *ClientDetail, err error) {
	const op = "crm.GetClientByID"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		client, err := loadClient(ctx, s, op, id, true)
		if err != nil {
			return err
		}
		out = toClientDetail(client)
		return nil
	})
	return out, err
}

// GetContactByID returns the contact with its linked clients ordered by name.
func (u Usecases) GetContactByID(ctx context.Context, id int64) (out *ContactDetail, err error) {
	const op = "crm.GetContactByID"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		contact, err := loadContact(ctx, s, op, id, true)
		if err != nil {
			return err
		}
		out = toContactDetail(contact)
		return nil
	})
	return out, err
}

// GetAvailableContactsForClient lists the contacts not yet linked to clientID. A clientID that
// does not resolve is NotFound rather than an unfiltered list.
func (u Usecases) GetAvailableContactsForClient(ctx context.Context, clientID int64) (out []ContactListItem, err error) {
	const op = "crm.GetAvailableContactsForClient"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		client, err := loadClient(ctx, s, op, clientID, true)
		if err != nil {
			return err
		}
		contacts, err := s.Contacts().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = contactList(contacts, idSet(client.LinkedContactIDs()))
		return nil
	})
	return out, err
}

// GetAvailableClientsForContact lists the clients not yet linked to contactID. A contactID that
// does not resolve is NotFound rather than an unfiltered list.
func (u Usecases) GetAvailableClientsForContact(ctx context.Context, contactID int64) (out []ClientListItem, err error) {
	const op = "crm.GetAvailableClientsForContact"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		contact, err := loadContact(ctx, s, op, contactID, true)
		if err != nil {
			return err
		}
		clients, err := s.Clients().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = clientList(clients, idSet(contact.LinkedClientIDs()))
		return nil
	})
	return out, err
}

func clientList(clients []*domain.Client, exclude map[int64]struct{}) []ClientListItem {
	kept := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		if _, skip := exclude[c.ID()]; !skip {
			kept = append(kept, c)
		}
	}
	sortByDisplayName(kept, (*domain.Client).DisplayName)
	out := make([]ClientListItem, 0, len(kept))
	for _, c := range kept {
		out = append(out, toClientListItem(c))
	}
	return out
}

func contactList(contacts []*domain.Contact, exclude map[int64]struct{}) []ContactListItem {
	kept := make([]*domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if _, skip := exclude[c.ID()]; !skip {
			kept = append(kept, c)
		}
	}
	sortByDisplayName(kept, (*domain.Contact).DisplayName)
	out := make([]ContactListItem, 0, len(kept))
	for _, c := range kept {
		out = append(out, toContactListItem(c))
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
