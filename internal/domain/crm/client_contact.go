package crm

import (
	"fmt"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

// ClientContact is one active association between a client and a contact. Values handed out
// by the aggregates are copies; mutating them has no effect on either side.
type ClientContact struct {
	clientID  int64
	contactID int64
	client    *Client
	contact   *Contact
}

func (l ClientContact) ClientID() int64   { return l.clientID }
func (l ClientContact) ContactID() int64  { return l.contactID }
func (l ClientContact) Client() *Client   { return l.client }
func (l ClientContact) Contact() *Contact { return l.contact }

// RestoreLink re-attaches a stored association to both aggregates.
func RestoreLink(client *Client, contact *Contact) error {
	const op = "crm.RestoreLink"
	if client == nil || contact == nil {
		return aggregates.InvalidArgument(op, "client and contact are required")
	}
	if client.HasContact(contact.id) || contact.HasClient(client.id) {
		return aggregates.InvariantViolation(op, fmt.Sprintf("link %d/%d restored twice", client.id, contact.id))
	}
	return link(op, client, contact)
}

// link is the single place associations are created. Both collections are updated before it
// returns.
func link(op string, client *Client, contact *Contact) error {
	if client.id <= 0 {
		return aggregates.InvariantViolation(op, "client must be stored before it can be linked")
	}
	if contact.id <= 0 {
		return aggregates.InvariantViolation(op, "contact must be stored before it can be linked")
	}
	l := &ClientContact{
		clientID:  client.id,
		contactID: contact.id,
		client:    client,
		contact:   contact,
	}
	client.links = append(client.links, l)
	contact.links = append(contact.links, l)
	return nil
}

// unlink is the single place associations are removed.
func unlink(l *ClientContact) {
	if l.client != nil {
		l.client.detach(l)
	}
	if l.contact != nil {
		l.contact.detach(l)
	}
}
