package crm

import (
	"fmt"
	"strings"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

type Client struct {
	id    int64
	name  string
	code  string
	links []*ClientContact
}

// NewClient validates and builds a client that has not been stored yet.
func NewClient(name, clientCode string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, aggregates.InvalidArgument("crm.NewClient", "client name cannot be empty")
	}
	if strings.TrimSpace(clientCode) == "" {
		return nil, aggregates.InvalidArgument("crm.NewClient", "client code cannot be empty")
	}
	return &Client{name: name, code: clientCode}, nil
}

// RestoreClient rebuilds a stored client. Links are attached afterwards with RestoreLink.
func RestoreClient(id int64, name, clientCode string) (*Client, error) {
	if id <= 0 {
		return nil, aggregates.InvalidArgument("crm.RestoreClient", fmt.Sprintf("invalid client id %d", id))
	}
	c, err := NewClient(name, clientCode)
	if err != nil {
		return nil, err
	}
	c.id = id
	return c, nil
}

func (c *Client) ID() int64          { return c.id }
func (c *Client) Name() string       { return c.name }
func (c *Client) ClientCode() string { return c.code }

// DisplayName is the value client lists are ordered by.
func (c *Client) DisplayName() string { return c.name }

// AssignID records the identity storage gave a newly inserted client.
func (c *Client) AssignID(id int64) error {
	if c.id != 0 {
		return aggregates.InvariantViolation("crm.Client.AssignID", fmt.Sprintf("client already has id %d", c.id))
	}
	if id <= 0 {
		return aggregates.InvalidArgument("crm.Client.AssignID", fmt.Sprintf("invalid client id %d", id))
	}
	c.id = id
	return nil
}

// ClientContacts returns the client's links in insertion order.
func (c *Client) ClientContacts() []ClientContact {
	out := make([]ClientContact, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, *l)
	}
	return out
}

// LinkedContactIDs returns the ids of every linked contact in insertion order.
func (c *Client) LinkedContactIDs() []int64 {
	out := make([]int64, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l.contactID)
	}
	return out
}

func (c *Client) ContactCount() int { return len(c.links) }

func (c *Client) HasContact(contactID int64) bool {
	return c.linkIndex(contactID) >= 0
}

// LinkContact associates contact with this client, registering the link on both aggregates.
func (c *Client) LinkContact(contact *Contact) error {
	const op = "crm.Client.LinkContact"
	if contact == nil {
		return aggregates.InvalidArgument(op, "contact is required")
	}
	if c.HasContact(contact.id) || contact.HasClient(c.id) {
		return aggregates.InvariantViolation(op, fmt.Sprintf("Contact '%s' is already linked to this client.", contact.email))
	}
	return link(op, c, contact)
}

// UnlinkContact removes the link to contactID from this client and, when it was loaded with
// the link, from the contact as well.
func (c *Client) UnlinkContact(contactID int64) error {
	if !c.HasContact(contactID) {
		return aggregates.InvariantViolation("crm.Client.UnlinkContact", "Contact is not linked to this client.")
	}
	unlink(c.links[c.linkIndex(contactID)])
	return nil
}

func (c *Client) linkIndex(contactID int64) int {
	for i, l := range c.links {
		if l.contactID == contactID {
			return i
		}
	}
	return -1
}

func (c *Client) detach(l *ClientContact) {
	for i, cur := range c.links {
		if cur == l || cur.contactID == l.contactID {
			c.links = append(c.links[:i], c.links[i+1:]...)
			return
		}
	}
}
