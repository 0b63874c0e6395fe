package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	"github.com/yungbote/clientcontacts-backend/internal/http/response"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm"
)

type ContactUsecases interface {
	GetAllContacts(ctx context.Context) ([]crm.ContactListItem, error)
	GetContactByID(ctx context.Context, id int64) (*crm.ContactDetail, error)
	GetAvailableClientsForContact(ctx context.Context, contactID int64) ([]crm.ClientListItem, error)
	CreateContact(ctx context.Context, cmd crm.CreateContactCommand) (int64, error)
	LinkClientToContact(ctx context.Context, cmd crm.LinkClientToContactCommand) error
	UnlinkClientFromContact(ctx context.Context, cmd crm.UnlinkClientFromContactCommand) error
}

type ContactHandler struct {
	contacts ContactUsecases
}

func NewContactHandler(contacts ContactUsecases) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// GET /api/contacts
func (h *ContactHandler) ListContacts(c *gin.Context) {
	items, err := h.contacts.GetAllContacts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": items})
}

// GET /api/contacts/:id
//
// Responds with the contact detail and the clients that can still be linked. An unknown id is a
// 404 for both parts.
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ctx := c.Request.Context()
	contact, err := h.contacts.GetContactByID(ctx, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	available, err := h.contacts.GetAvailableClientsForContact(ctx, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": contact, "available_clients": available})
}

// POST /api/contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var cmd crm.CreateContactCommand
	if err := bindJSON(c, &cmd); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	id, err := h.contacts.CreateContact(c.Request.Context(), cmd)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"id": id})
}

// POST /api/contacts/:id/clients
func (h *ContactHandler) LinkClient(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req linkRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if req.ClientID <= 0 {
		response.RespondAPIError(c, aggregates.InvalidArgument("http.LinkClient", "client_id is required"))
		return
	}
	err = h.contacts.LinkClientToContact(c.Request.Context(), crm.LinkClientToContactCommand{ContactID: id, ClientID: req.ClientID})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact_id": id, "client_id": req.ClientID})
}

// DELETE /api/contacts/:id/clients/:clientId
func (h *ContactHandler) UnlinkClient(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	clientID, err := idParam(c, "clientId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	err = h.contacts.UnlinkClientFromContact(c.Request.Context(), crm.UnlinkClientFromContactCommand{ContactID: id, ClientID: clientID})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact_id": id, "client_id": clientID})
}
