package crm

import (
	"context"
	"fmt"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm/clientcode"
)

type CreateClientCommand struct {
	Name string `json:"name" validate:"notblank,max=200"`
}

type CreateContactCommand struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Surname string `json:"surname" validate:"notblank,max=100"`
	Email   string `json:"email" validate:"notblank,email,max=254"`
}

type LinkContactToClientCommand struct {
	ClientID  int64
	ContactID int64
}

type LinkClientToContactCommand struct {
	ContactID int64
	ClientID  int64
}

type UnlinkContactFromClientCommand struct {
	ClientID  int64
	ContactID int64
}

type UnlinkClientFromContactCommand struct {
	ContactID int64
	ClientID  int64
}

// CreateClient validates the name, generates a unique code and stores the client.
func (u Usecases) CreateClient(ctx context.Context, cmd CreateClientCommand) (id int64, err error) {
	ctx, finish := u.span(ctx, "crm.CreateClient")
	defer func() { finish(err) }()
	return u.createClient(ctx, cmd)
}

func (u Usecases) handleCreateClient(ctx context.Context, cmd CreateClientCommand) (int64, error) {
	const op = "crm.CreateClient"
	prefix := clientcode.Prefix(cmd.Name)

	unlock, err := u.deps.Locker.Lock(ctx, "client_code:"+prefix)
	if err != nil {
		return 0, fmt.Errorf("%s: lock prefix %s: %w", op, prefix, err)
	}
	defer unlock()

	var client *domain.Client
	err = u.inSession(ctx, op, func(s Session) error {
		code, err := clientcode.New(s.Clients()).Generate(ctx, cmd.Name)
		if err != nil {
			return err
		}
		if !clientcode.Valid(code) {
			return aggregates.InvariantViolation(op, fmt.Sprintf("generated client code %q is malformed", code))
		}
		client, err = domain.NewClient(cmd.Name, code)
		if err != nil {
			return err
		}
		if err := s.Clients().Add(ctx, client); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	u.log(ctx).Info("client created", "client_id", client.ID(), "client_code", client.ClientCode())
	return client.ID(), nil
}

// CreateContact validates every field, including email uniqueness, and stores the contact.
func (u Usecases) CreateContact(ctx context.Context, cmd CreateContactCommand) (id int64, err error) {
	ctx, finish := u.span(ctx, "crm.CreateContact")
	defer func() { finish(err) }()
	return u.createContact(ctx, cmd)
}

func (u Usecases) handleCreateContact(ctx context.Context, cmd CreateContactCommand) (int64, error) {
	var contact *domain.Contact
	err := u.inSession(ctx, "crm.CreateContact", func(s Session) error {
		var err error
		contact, err = domain.NewContact(cmd.Name, cmd.Surname, cmd.Email)
		if err != nil {
			return err
		}
		if err := s.Contacts().Add(ctx, contact); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	u.log(ctx).Info("contact created", "contact_id", contact.ID(), "email", contact.Email())
	return contact.ID(), nil
}

// LinkContactToClient links from the client side.
func (u Usecases) LinkContactToClient(ctx context.Context, cmd LinkContactToClientCommand) (err error) {
	const op = "crm.LinkContactToClient"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		client, err := loadClient(ctx, s, op, cmd.ClientID, true)
		if err != nil {
			return err
		}
		contact, err := loadContact(ctx, s, op, cmd.ContactID, false)
		if err != nil {
			return err
		}
		if err := client.LinkContact(contact); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err == nil {
		u.log(ctx).Info("contact linked to client", "client_id", cmd.ClientID, "contact_id", cmd.ContactID)
	}
	return err
}

// LinkClientToContact links from the contact side.
func (u Usecases) LinkClientToContact(ctx context.Context, cmd LinkClientToContactCommand) (err error) {
	const op = "crm.LinkClientToContact"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		contact, err := loadContact(ctx, s, op, cmd.ContactID, true)
		if err != nil {
			return err
		}
		client, err := loadClient(ctx, s, op, cmd.ClientID, false)
		if err != nil {
			return err
		}
		if err := contact.LinkClient(client); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err == nil {
		u.log(ctx).Info("client linked to contact", "contact_id", cmd.ContactID, "client_id", cmd.ClientID)
	}
	return err
}

func (u Usecases) UnlinkContactFromClient(ctx context.Context, cmd UnlinkContactFromClientCommand) (err error) {
	const op = "crm.UnlinkContactFromClient"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		client, err := loadClient(ctx, s, op, cmd.ClientID, true)
		if err != nil {
			return err
		}
		if err := client.UnlinkContact(cmd.ContactID); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err == nil {
		u.log(ctx).Info("contact unlinked from client", "client_id", cmd.ClientID, "contact_id", cmd.ContactID)
	}
	return err
}

func (u Usecases) UnlinkClientFromContact(ctx context.Context, cmd UnlinkClientFromContactCommand) (err error) {
	const op = "crm.UnlinkClientFromContact"
	ctx, finish := u.span(ctx, op)
	defer func() { finish(err) }()

	err = u.inSession(ctx, op, func(s Session) error {
		contact, err := loadContact(ctx, s, op, cmd.ContactID, true)
		if err != nil {
			return err
		}
		if err := contact.UnlinkClient(cmd.ClientID); err != nil {
			return err
		}
		_, err = s.Commit(ctx)
		return err
	})
	if err == nil {
		u.log(ctx).Info("client unlinked from contact", "contact_id", cmd.ContactID, "client_id", cmd.ClientID)
	}
	return err
}

func loadClient(ctx context.Context, s Session, op string, id int64, withContacts bool) (*domain.Client, error) {
	var (
		client *domain.Client
		err    error
	)
	if withContacts {
		client, err = s.Clients().GetByIDWithContacts(ctx, id)
	} else {
		client, err = s.Clients().GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load client %d: %w", op, id, err)
	}
	if client == nil {
		return nil, aggregates.NotFound(op, fmt.Sprintf("Client with ID %d not found.", id))
	}
	return client, nil
}

func loadContact(ctx context.Context, s Session, op string, id int64, withClients bool) (*domain.Contact, error) {
	var (
		contact *domain.Contact
		err     error
	)
	if withClients {
		contact, err = s.Contacts().GetByIDWithClients(ctx, id)
	} else {
		contact, err = s.Contacts().GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load contact %d: %w", op, id, err)
	}
	if contact == nil {
		return nil, aggregates.NotFound(op, fmt.Sprintf("Contact with ID %d not found.", id))
	}
	return contact, nil
}
