package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// errorStatus maps a service error to its HTTP status code.
func errorStatus(err error) int {
	var validationErr *validation.Error
	switch {
	case errors.Is(err, apperrors.ErrClientNotFound),
		errors.Is(err, apperrors.ErrScripNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrArityMismatch),
		errors.Is(err, apperrors.ErrEmptyBatch),
		errors.Is(err, apperrors.ErrInsufficientInventory),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrMissingAccountOpenDate),
		errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
