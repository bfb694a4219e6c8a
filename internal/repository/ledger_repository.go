package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// LedgerRepository provides data access methods for the append-only ledger
// table.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Insert appends one cash movement. Ledger entries are immutable; there is
// deliberately no update or delete method on this repository.
func (r *LedgerRepository) Insert(entry model.LedgerEntry) error {
	query := `
		INSERT INTO ledger (id, client_id, amount, entry_type, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.ClientID,
		entry.Amount,
		string(entry.EntryType),
		FormatDate(entry.FromDate),
		FormatDate(entry.ToDate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

// CapitalBalance sums the client's ledger amounts over the capital entry
// kinds (investments, inter-DP stock sales and customer-contributed P&L).
// Charges are a cost and are excluded from this sum.
func (r *LedgerRepository) CapitalBalance(clientID string) (float64, error) {
	placeholders := make([]string, len(model.CapitalEntryTypes))
	args := make([]any, 0, len(model.CapitalEntryTypes)+1)
	args = append(args, clientID)
	for i, kind := range model.CapitalEntryTypes {
		placeholders[i] = "?"
		args = append(args, string(kind))
	}

	query := `
		SELECT SUM(amount)
		FROM ledger
		WHERE client_id = ? AND entry_type IN (` + strings.Join(placeholders, ",") + `)
	`

	var sum sql.NullFloat64
	if err := r.db.QueryRow(query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger balance: %w", err)
	}

	return sum.Float64, nil
}

// SumCharges sums the client's CHARGES entries (normally negative).
func (r *LedgerRepository) SumCharges(clientID string) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(amount) FROM ledger WHERE client_id = ? AND entry_type = ?
	`, clientID, string(model.LedgerCharges)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger charges: %w", err)
	}
	return sum.Float64, nil
}

// ListCapitalEntries returns (date, amount) pairs for the client's capital
// entry kinds, for the return-rate cash-flow series.
func (r *LedgerRepository) ListCapitalEntries(clientID string) ([]model.DatedAmount, error) {
	placeholders := make([]string, len(model.CapitalEntryTypes))
	args := make([]any, 0, len(model.CapitalEntryTypes)+1)
	args = append(args, clientID)
	for i, kind := range model.CapitalEntryTypes {
		placeholders[i] = "?"
		args = append(args, string(kind))
	}

	query := `
		SELECT from_date, amount
		FROM ledger
		WHERE client_id = ? AND entry_type IN (` + strings.Join(placeholders, ",") + `)
	`

	return r.listDatedAmounts(query, args...)
}

// ListChargeEntries returns (date, amount) pairs for the client's CHARGES
// entries.
func (r *LedgerRepository) ListChargeEntries(clientID string) ([]model.DatedAmount, error) {
	query := `
		SELECT from_date, amount
		FROM ledger
		WHERE client_id = ? AND entry_type = ?
	`
	return r.listDatedAmounts(query, clientID, string(model.LedgerCharges))
}

func (r *LedgerRepository) listDatedAmounts(query string, args ...any) ([]model.DatedAmount, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger table: %w", err)
	}
	defer rows.Close()

	entries := []model.DatedAmount{}
	for rows.Next() {
		var dateStr string
		var e model.DatedAmount
		if err := rows.Scan(&dateStr, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger table results: %w", err)
		}
		e.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry date: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger table: %w", err)
	}

	return entries, nil
}
