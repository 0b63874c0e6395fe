package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	"github.com/yungbote/clientcontacts-backend/internal/http/response"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm"
)

type ClientUsecases interface {
	GetAllClients(ctx context.Context) ([]crm.ClientListItem, error)
	GetClientByID(ctx context.Context, id int64) (*crm.ClientDetail, error)
	GetAvailableContactsForClient(ctx context.Context, clientID int64) ([]crm.ContactListItem, error)
	CreateClient(ctx context.Context, cmd crm.CreateClientCommand) (int64, error)
	LinkContactToClient(ctx context.Context, cmd crm.LinkContactToClientCommand) error
	UnlinkContactFromClient(ctx context.Context, cmd crm.UnlinkContactFromClientCommand) error
}

type ClientHandler struct {
	clients ClientUsecases
}

func NewClientHandler(clients ClientUsecases) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// GET /api/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	items, err := h.clients.GetAllClients(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clients": items})
}

// GET /api/clients/:id
//
// Responds with the client detail and the contacts that can still be linked. An unknown id is a
// 404 for both parts.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ctx := c.Request.Context()
	client, err := h.clients.GetClientByID(ctx, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	available, err := h.clients.GetAvailableContactsForClient(ctx, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client": client, "available_contacts": available})
}

// POST /api/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var cmd crm.CreateClientCommand
	if err := bindJSON(c, &cmd); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	id, err := h.clients.CreateClient(c.Request.Context(), cmd)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"id": id})
}

// POST /api/clients/:id/contacts
func (h *ClientHandler) LinkContact(c *gin.Context) {
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
	if req.ContactID <= 0 {
		response.RespondAPIError(c, aggregates.InvalidArgument("http.LinkContact", "contact_id is required"))
		return
	}
	err = h.clients.LinkContactToClient(c.Request.Context(), crm.LinkContactToClientCommand{ClientID: id, ContactID: req.ContactID})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client_id": id, "contact_id": req.ContactID})
}

// DELETE /api/clients/:id/contacts/:contactId
func (h *ClientHandler) UnlinkContact(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	contactID, err := idParam(c, "contactId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	err = h.clients.UnlinkContactFromClient(c.Request.Context(), crm.UnlinkContactFromClientCommand{ClientID: id, ContactID: contactID})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client_id": id, "contact_id": contactID})
}
