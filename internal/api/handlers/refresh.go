package handlers

import (
	"net/http"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

// RefreshHandler exposes the scheduled refresh jobs as admin endpoints so
// an operator can force a run between cron ticks.
type RefreshHandler struct {
	refreshService *service.RefreshService
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(refreshService *service.RefreshService) *RefreshHandler {
	return &RefreshHandler{
		refreshService: refreshService,
	}
}

// RefreshResponse reports how many records a refresh run touched.
type RefreshResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// Quotes handles POST /api/refresh/quotes.
func (h *RefreshHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	updated, err := h.refreshService.UpdateQuotes(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update quotes", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, RefreshResponse{Success: true, Updated: updated})
}

// UnrealisedPnl handles POST /api/refresh/unrealised-pnl.
func (h *RefreshHandler) UnrealisedPnl(w http.ResponseWriter, r *http.Request) {
	updated, err := h.refreshService.RefreshUnrealisedPnl(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh unrealised pnl", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, RefreshResponse{Success: true, Updated: updated})
}
