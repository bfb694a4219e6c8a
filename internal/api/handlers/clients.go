package handlers

import (
	"net/http"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

// ClientHandler handles CRM listing HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// List handles GET /api/client, returning the reduced listing the admin
// account selector renders.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.ListClients()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve clients", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, clients)
}
