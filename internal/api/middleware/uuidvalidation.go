// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
	"github.com/ifinlabs/wealth-reporting-backend/internal/validation"
)

// ValidateClientIDMiddleware validates that the clientId URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the client ID is missing or invalid.
// Apply it to the report routes so handlers never see a malformed ID.
//
// Example usage in router:
//
//	r.Route("/{clientId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateClientIDMiddleware)
//	    r.Get("/portfolio-value", handler.PortfolioValue)
//	})
func ValidateClientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientId")

		if clientID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid client ID is required", "")
			return
		}

		if err := validation.ValidateUUID(clientID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid client ID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
