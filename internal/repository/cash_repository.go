package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// CashRepository provides data access methods for the derived cash tables:
// invested_cash (temporally versioned), withdrawn_cash and the two admin
// override tables (current_ledger_balance, today_algo_pnl).
type CashRepository struct {
	db *sql.DB
}

// NewCashRepository creates a new CashRepository with the provided database connection.
func NewCashRepository(db *sql.DB) *CashRepository {
	return &CashRepository{db: db}
}

// CurrentInvestedCash returns the client's open-ended invested-cash row, or
// nil when the client has none yet.
func (r *CashRepository) CurrentInvestedCash(clientID string) (*model.InvestedCash, error) {
	query := `
		SELECT id, client_id, amount, from_date, to_date
		FROM invested_cash
		WHERE client_id = ? AND to_date = ?
	`

	var ic model.InvestedCash
	var fromStr, toStr string
	err := r.db.QueryRow(query, clientID, FormatDate(model.MaxDate)).Scan(
		&ic.ID, &ic.ClientID, &ic.Amount, &fromStr, &toStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query invested_cash table: %w", err)
	}

	ic.FromDate, err = ParseTime(fromStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse from date: %w", err)
	}
	ic.ToDate, err = ParseTime(toStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse to date: %w", err)
	}

	return &ic, nil
}

// SupersedeInvestedCash closes the client's current invested-cash row (if
// any) at the given date and opens a new row with the given amount, in one
// transaction. At most one open-ended row per client survives.
func (r *CashRepository) SupersedeInvestedCash(clientID string, amount float64, date time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE invested_cash SET to_date = ? WHERE client_id = ? AND to_date = ?
	`, FormatDate(date), clientID, FormatDate(model.MaxDate))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close invested cash row: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO invested_cash (id, client_id, amount, from_date, to_date)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), clientID, amount, FormatDate(date), FormatDate(model.MaxDate))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert invested cash row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invested cash supersede: %w", err)
	}

	return nil
}

// AccumulateWithdrawnCash adds the given shortfall to the client's
// withdrawn-cash balance, creating the row if it does not exist.
func (r *CashRepository) AccumulateWithdrawnCash(clientID string, delta float64) error {
	query := `
		INSERT INTO withdrawn_cash (id, client_id, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := r.db.Exec(query, uuid.NewString(), clientID, delta); err != nil {
		return fmt.Errorf("failed to upsert withdrawn cash: %w", err)
	}

	return nil
}

// GetWithdrawnCash returns the client's withdrawn-cash amount, or nil when
// no row exists.
func (r *CashRepository) GetWithdrawnCash(clientID string) (*float64, error) {
	return r.getAmount(`SELECT amount FROM withdrawn_cash WHERE client_id = ?`, clientID)
}

// UpsertCurrentLedgerBalance overwrites the client's admin-supplied current
// ledger balance.
func (r *CashRepository) UpsertCurrentLedgerBalance(clientID string, amount float64) error {
	query := `
		INSERT INTO current_ledger_balance (id, client_id, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET amount = excluded.amount
	`

	if _, err := r.db.Exec(query, uuid.NewString(), clientID, amount); err != nil {
		return fmt.Errorf("failed to upsert current ledger balance: %w", err)
	}

	return nil
}

// GetCurrentLedgerBalance returns the admin-supplied current ledger
// balance, or nil when no row exists.
func (r *CashRepository) GetCurrentLedgerBalance(clientID string) (*float64, error) {
	return r.getAmount(`SELECT amount FROM current_ledger_balance WHERE client_id = ?`, clientID)
}

// UpsertTodayAlgoPnl overwrites the client's admin-supplied intraday algo
// P&L figure.
func (r *CashRepository) UpsertTodayAlgoPnl(clientID string, amount float64) error {
	query := `
		INSERT INTO today_algo_pnl (id, client_id, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET amount = excluded.amount
	`

	if _, err := r.db.Exec(query, uuid.NewString(), clientID, amount); err != nil {
		return fmt.Errorf("failed to upsert today algo pnl: %w", err)
	}

	return nil
}

// GetTodayAlgoPnl returns the client's intraday algo P&L figure, or nil
// when no row exists.
func (r *CashRepository) GetTodayAlgoPnl(clientID string) (*float64, error) {
	return r.getAmount(`SELECT amount FROM today_algo_pnl WHERE client_id = ?`, clientID)
}

func (r *CashRepository) getAmount(query string, clientID string) (*float64, error) {
	var amount float64
	err := r.db.QueryRow(query, clientID).Scan(&amount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query amount: %w", err)
	}
	return &amount, nil
}
