package crm

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

type ClientListItem struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ClientCode         string `json:"client_code"`
	LinkedContactCount int    `json:"linked_contact_count"`
}

type ClientDetail struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	ClientCode     string          `json:"client_code"`
	LinkedContacts []LinkedContact `json:"linked_contacts"`
}

type LinkedContact struct {
	ContactID int64  `json:"contact_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

type ContactListItem struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	Email             string `json:"email"`
	LinkedClientCount int    `json:"linked_client_count"`
}

type ContactDetail struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Surname       string         `json:"surname"`
	Email         string         `json:"email"`
	LinkedClients []LinkedClient `json:"linked_clients"`
}

type LinkedClient struct {
	ClientID   int64  `json:"client_id"`
	ClientName string `json:"client_name"`
	ClientCode string `json:"client_code"`
}

func toClientListItem(c *domain.Client) ClientListItem {
	return ClientListItem{
		ID:                 c.ID(),
		Name:               c.Name(),
		ClientCode:         c.ClientCode(),
		LinkedContactCount: c.ContactCount(),
	}
}

func toContactListItem(c *domain.Contact) ContactListItem {
	return ContactListItem{
		ID:                c.ID(),
		Name:              c.Name(),
		Surname:           c.Surname(),
		Email:             c.Email(),
		LinkedClientCount: c.ClientCount(),
	}
}

func toClientDetail(c *domain.Client) *ClientDetail {
	links := c.ClientContacts()
	sortByDisplayName(links, func(l domain.ClientContact) string { return l.Contact().FullName() })
	out := &ClientDetail{
		ID:             c.ID(),
		Name:           c.Name(),
		ClientCode:     c.ClientCode(),
		LinkedContacts: make([]LinkedContact, 0, len(links)),
	}
	for _, l := range links {
		out.LinkedContacts = append(out.LinkedContacts, LinkedContact{
			ContactID: l.ContactID(),
			FullName:  l.Contact().FullName(),
			Email:     l.Contact().Email(),
		})
	}
	return out
}

func toContactDetail(c *domain.Contact) *ContactDetail {
	links := c.ClientContacts()
	sortByDisplayName(links, func(l domain.ClientContact) string { return l.Client().Name() })
	out := &ContactDetail{
		ID:            c.ID(),
		Name:          c.Name(),
		Surname:       c.Surname(),
		Email:         c.Email(),
		LinkedClients: make([]LinkedClient, 0, len(links)),
	}
	for _, l := range links {
		out.LinkedClients = append(out.LinkedClients, LinkedClient{
			ClientID:   l.ClientID(),
			ClientName: l.Client().Name(),
			ClientCode: l.Client().ClientCode(),
		})
	}
	return out
}

// sortByDisplayName is a stable, locale-aware ascending sort. Collators are not safe for
// concurrent use, so each call builds its own.
func sortByDisplayName[T any](items []T, key func(T) string) {
	col := collate.New(language.Und)
	slices.SortStableFunc(items, func(a, b T) int {
		return col.CompareString(key(a), key(b))
	})
}
