package crm

import (
	"fmt"
	"strings"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

type Contact struct {
	id      int64
	name    string
	surname string
	email   string
	links   []*ClientContact
}

// NewContact validates and builds a contact that has not been stored yet.
func NewContact(name, surname, email string) (*Contact, error) {
	const op = "crm.NewContact"
	if strings.TrimSpace(name) == "" {
		return nil, aggregates.InvalidArgument(op, "name cannot be empty")
	}
	if strings.TrimSpace(surname) == "" {
		return nil, aggregates.InvalidArgument(op, "surname cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, aggregates.InvalidArgument(op, "email cannot be empty")
	}
	return &Contact{name: name, surname: surname, email: email}, nil
}

// RestoreContact rebuilds a stored contact. Links are attached afterwards with RestoreLink.
func RestoreContact(id int64, name, surname, email string) (*Contact, error) {
	if id <= 0 {
		return nil, aggregates.InvalidArgument("crm.RestoreContact", fmt.Sprintf("invalid contact id %d", id))
	}
	c, err := NewContact(name, surname, email)
	if err != nil {
		return nil, err
	}
	c.id = id
	return c, nil
}

func (c *Contact) ID() int64       { return c.id }
func (c *Contact) Name() string    { return c.name }
func (c *Contact) Surname() string { return c.surname }
func (c *Contact) Email() string   { return c.email }

// EmailKey is the form under which email addresses are compared for uniqueness.
// Addresses differing only in letter case are the same address.
func EmailKey(email string) string { return strings.ToLower(email) }

// FullName is "Surname Name". It is derived on every call and never stored.
func (c *Contact) FullName() string { return c.surname + " " + c.name }

// DisplayName is the value contact lists are ordered by.
func (c *Contact) DisplayName() string { return c.FullName() }

// AssignID records the identity storage gave a newly inserted contact.
func (c *Contact) AssignID(id int64) error {
	if c.id != 0 {
		return aggregates.InvariantViolation("crm.Contact.AssignID", fmt.Sprintf("contact already has id %d", c.id))
	}
	if id <= 0 {
		return aggregates.InvalidArgument("crm.Contact.AssignID", fmt.Sprintf("invalid contact id %d", id))
	}
	c.id = id
	return nil
}

// ClientContacts returns the contact's links in insertion order.
func (c *Contact) ClientContacts() []ClientContact {
	out := make([]ClientContact, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, *l)
	}
	return out
}

// LinkedClientIDs returns the ids of every linked client in insertion order.
func (c *Contact) LinkedClientIDs() []int64 {
	out := make([]int64, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l.clientID)
	}
	return out
}

func (c *Contact) ClientCount() int { return len(c.links) }

func (c *Contact) HasClient(clientID int64) bool {
	return c.linkIndex(clientID) >= 0
}

// LinkClient associates client with this contact, registering the link on both aggregates.
func (c *Contact) LinkClient(client *Client) error {
	const op = "crm.Contact.LinkClient"
	if client == nil {
		return aggregates.InvalidArgument(op, "client is required")
	}
	if c.HasClient(client.id) || client.HasContact(c.id) {
		return aggregates.InvariantViolation(op, fmt.Sprintf("Client '%s' is already linked to this contact.", client.name))
	}
	return link(op, client, c)
}

// UnlinkClient removes the link to clientID from this contact and, when it was loaded with
// the link, from the client as well.
func (c *Contact) UnlinkClient(clientID int64) error {
	if !c.HasClient(clientID) {
		return aggregates.InvariantViolation("crm.Contact.UnlinkClient", "Client is not linked to this contact.")
	}
	unlink(c.links[c.linkIndex(clientID)])
	return nil
}

func (c *Contact) linkIndex(clientID int64) int {
	for i, l := range c.links {
		if l.clientID == clientID {
			return i
		}
	}
	return -1
}

func (c *Contact) detach(l *ClientContact) {
	for i, cur := range c.links {
		if cur == l || cur.clientID == l.clientID {
			c.links = append(c.links[:i], c.links[i+1:]...)
			return
		}
	}
}
