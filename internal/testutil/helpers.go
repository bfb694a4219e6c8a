package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/ifinlabs/wealth-reporting-backend/internal/marketdata"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewCashRepository(db),
		repository.NewClientRepository(db),
	)
}

func NewTestPnlService(t *testing.T, db *sql.DB) *service.PnlService {
	t.Helper()

	return service.NewPnlService(
		repository.NewPnlRepository(db),
		repository.NewClientRepository(db),
		NewTestLedgerService(t, db),
	)
}

func NewTestHoldingsService(t *testing.T, db *sql.DB) *service.HoldingsService {
	t.Helper()

	return service.NewHoldingsService(
		repository.NewHoldingsRepository(db),
		repository.NewClientRepository(db),
		repository.NewScripRepository(db),
		NewTestLedgerService(t, db),
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		repository.NewHoldingsRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewCashRepository(db),
		repository.NewPnlRepository(db),
		repository.NewClientRepository(db),
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		repository.NewScripRepository(db),
		repository.NewClientRepository(db),
		repository.NewCashRepository(db),
	)
}

// NewTestRefreshService creates a RefreshService backed by the given
// market-data client. Pass a MockMarketClient to avoid real API calls.
func NewTestRefreshService(t *testing.T, db *sql.DB, market marketdata.Client) *service.RefreshService {
	t.Helper()

	return service.NewRefreshService(
		repository.NewScripRepository(db),
		repository.NewHoldingsRepository(db),
		market,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeBrokerID generates a unique external broker ID for testing.
//
// Example usage:
//
//	brokerID := testutil.MakeBrokerID()
//	// Returns: "BRK1A2B3C"
func MakeBrokerID() string {
	return "BRK" + randomAlphanumeric(6)
}

// MakeScripcode generates a unique scripcode for testing.
//
// Example usage:
//
//	code := testutil.MakeScripcode()
//	// Returns: "5001A2B3"
func MakeScripcode() string {
	return "500" + randomAlphanumeric(5)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
