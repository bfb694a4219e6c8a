package apperrors

import "errors"

// Domain entity errors represent missing or invalid references in the
// system. These errors indicate that a requested record does not exist.
var (
	// ErrClientNotFound indicates that a broker ID or client ID could not be
	// resolved against the CRM table.
	ErrClientNotFound = errors.New("client not found")

	// ErrScripNotFound indicates that a (scripcode, quote feed) pair could
	// not be resolved against the scrip table.
	ErrScripNotFound = errors.New("scrip not found")
)

// Business logic errors represent validation failures or constraint
// violations.
var (
	// ErrInsufficientInventory indicates that a sell transaction exceeds the
	// total open quantity across the client's lots for that scrip.
	ErrInsufficientInventory = errors.New("insufficient open quantity for sale")

	// ErrArityMismatch indicates that the parallel arrays of an import batch
	// have unequal lengths.
	ErrArityMismatch = errors.New("input arrays must be of the same length")

	// ErrInvalidDateRange indicates a date range whose start falls after its
	// end.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMissingAccountOpenDate indicates that the client's CRM record has no
	// account-open date, which the return-rate cash-flow series requires.
	ErrMissingAccountOpenDate = errors.New("account open date is missing")

	// ErrEmptyBatch indicates an import batch with zero rows.
	ErrEmptyBatch = errors.New("batch cannot be empty")
)
