package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// PnlRepository provides data access methods for the realised_pnl table.
type PnlRepository struct {
	db *sql.DB
}

// NewPnlRepository creates a new PnlRepository with the provided database connection.
func NewPnlRepository(db *sql.DB) *PnlRepository {
	return &PnlRepository{db: db}
}

// InsertRows inserts a batch of realised P&L rows.
func (r *PnlRepository) InsertRows(rows []model.RealisedPnl) error {
	query := `
		INSERT INTO realised_pnl (id, client_id, pnl, entry_type, contributed_by, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, row := range rows {
		_, err := r.db.Exec(query,
			row.ID,
			row.ClientID,
			row.Pnl,
			row.EntryType,
			string(row.ContributedBy),
			FormatDate(row.FromDate),
			FormatDate(row.ToDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert realised pnl row: %w", err)
		}
	}

	return nil
}

// SumFirmPnl sums firm-contributed realised P&L for the client, all time.
func (r *PnlRepository) SumFirmPnl(clientID string) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(pnl) FROM realised_pnl WHERE client_id = ? AND contributed_by = ?
	`, clientID, string(model.ContributedByFirm)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum realised pnl: %w", err)
	}
	return sum.Float64, nil
}

// SumFirmPnlInRange sums firm-contributed realised P&L within the inclusive
// date range.
func (r *PnlRepository) SumFirmPnlInRange(clientID string, from, to time.Time) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(pnl)
		FROM realised_pnl
		WHERE client_id = ? AND contributed_by = ? AND from_date >= ? AND from_date <= ?
	`, clientID, string(model.ContributedByFirm), FormatDate(from), FormatDate(to)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum realised pnl in range: %w", err)
	}
	return sum.Float64, nil
}

// DailySeries returns firm-contributed realised P&L summed per day within
// the inclusive date range, ordered by date ascending.
func (r *PnlRepository) DailySeries(clientID string, from, to time.Time) ([]model.DailyPnl, error) {
	query := `
		SELECT from_date, SUM(pnl)
		FROM realised_pnl
		WHERE client_id = ? AND contributed_by = ? AND from_date >= ? AND from_date <= ?
		GROUP BY from_date
		ORDER BY from_date ASC
	`

	rows, err := r.db.Query(query, clientID, string(model.ContributedByFirm), FormatDate(from), FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query realised_pnl table: %w", err)
	}
	defer rows.Close()

	series := []model.DailyPnl{}
	for rows.Next() {
		var dateStr string
		var p model.DailyPnl
		if err := rows.Scan(&dateStr, &p.Pnl); err != nil {
			return nil, fmt.Errorf("failed to scan realised_pnl table results: %w", err)
		}
		p.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pnl date: %w", err)
		}
		series = append(series, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realised_pnl table: %w", err)
	}

	return series, nil
}

// ListFirmPnlEntries returns (date, amount) pairs for the client's
// firm-contributed rows, for the return-rate cash-flow series.
func (r *PnlRepository) ListFirmPnlEntries(clientID string) ([]model.DatedAmount, error) {
	query := `
		SELECT from_date, pnl
		FROM realised_pnl
		WHERE client_id = ? AND contributed_by = ?
	`

	rows, err := r.db.Query(query, clientID, string(model.ContributedByFirm))
	if err != nil {
		return nil, fmt.Errorf("failed to query realised_pnl table: %w", err)
	}
	defer rows.Close()

	entries := []model.DatedAmount{}
	for rows.Next() {
		var dateStr string
		var e model.DatedAmount
		if err := rows.Scan(&dateStr, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan realised_pnl table results: %w", err)
		}
		e.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pnl date: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realised_pnl table: %w", err)
	}

	return entries, nil
}
