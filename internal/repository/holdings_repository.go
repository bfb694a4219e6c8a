package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// HoldingsRepository provides data access methods for the holdings_lot
// table: lot creation, FIFO sell matching, valuation refresh writes and the
// filtered aggregates the report queries need.
type HoldingsRepository struct {
	db *sql.DB
}

// NewHoldingsRepository creates a new HoldingsRepository with the provided database connection.
func NewHoldingsRepository(db *sql.DB) *HoldingsRepository {
	return &HoldingsRepository{db: db}
}

// Begin starts a transaction on the underlying database. The sell-matching
// read-modify-write must run inside one transaction per sell row so a
// concurrent sell for the same client cannot observe stale lot state.
func (r *HoldingsRepository) Begin() (*sql.Tx, error) {
	return r.db.Begin()
}

// InsertLots inserts a batch of new holdings lots (one per BUY row).
func (r *HoldingsRepository) InsertLots(lots []model.HoldingsLot) error {
	query := `
		INSERT INTO holdings_lot
			(id, client_id, scrip_id, buy_quantity, buy_price, buy_value, buy_date,
			 sell_quantity, sell_price, sell_value, open_quantity,
			 unrealised_pnl, market_value, owned_by, fund_source, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, lot := range lots {
		_, err := r.db.Exec(query,
			lot.ID,
			lot.ClientID,
			lot.ScripID,
			lot.BuyQuantity,
			lot.BuyPrice,
			lot.BuyValue,
			FormatDate(lot.BuyDate),
			lot.SellQuantity,
			lot.SellPrice,
			lot.SellValue,
			lot.OpenQuantity,
			lot.UnrealisedPnl,
			lot.MarketValue,
			string(lot.OwnedBy),
			string(lot.FundSource),
			FormatDate(lot.FromDate),
			FormatDate(lot.ToDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert holdings lot: %w", err)
		}
	}

	return nil
}

// OpenLots retrieves all open lots (open_quantity > 0) for the given client
// and scrip, oldest buy first. Lots sharing a buy date keep insertion order
// so FIFO matching is stable.
func (r *HoldingsRepository) OpenLots(q Querier, clientID, scripID string) ([]model.HoldingsLot, error) {
	query := `
		SELECT id, client_id, scrip_id, buy_quantity, buy_price, buy_value, buy_date,
		       sell_quantity, sell_price, sell_value, open_quantity,
		       unrealised_pnl, market_value, owned_by, fund_source
		FROM holdings_lot
		WHERE client_id = ? AND scrip_id = ? AND open_quantity > 0
		ORDER BY buy_date ASC, rowid ASC
	`

	rows, err := q.Query(query, clientID, scripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings_lot table: %w", err)
	}
	defer rows.Close()

	lots := []model.HoldingsLot{}
	for rows.Next() {
		var lot model.HoldingsLot
		var buyDateStr, ownedBy, fundSource string

		err := rows.Scan(
			&lot.ID,
			&lot.ClientID,
			&lot.ScripID,
			&lot.BuyQuantity,
			&lot.BuyPrice,
			&lot.BuyValue,
			&buyDateStr,
			&lot.SellQuantity,
			&lot.SellPrice,
			&lot.SellValue,
			&lot.OpenQuantity,
			&lot.UnrealisedPnl,
			&lot.MarketValue,
			&ownedBy,
			&fundSource,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holdings_lot table results: %w", err)
		}

		lot.BuyDate, err = ParseTime(buyDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse buy date: %w", err)
		}
		lot.OwnedBy = model.OwnedBy(ownedBy)
		lot.FundSource = model.FundSource(fundSource)

		lots = append(lots, lot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings_lot table: %w", err)
	}

	return lots, nil
}

// UpdateLotSale writes the cumulative sell state of one lot after a FIFO
// match. The validity window restarts at the time of the mutation.
func (r *HoldingsRepository) UpdateLotSale(q Querier, lot model.HoldingsLot, sellDate time.Time) error {
	query := `
		UPDATE holdings_lot
		SET buy_value = ?, sell_quantity = ?, sell_price = ?, sell_value = ?,
		    sell_date = ?, open_quantity = ?, from_date = ?, to_date = ?
		WHERE id = ?
	`

	_, err := q.Exec(query,
		lot.BuyValue,
		lot.SellQuantity,
		lot.SellPrice,
		lot.SellValue,
		FormatDate(sellDate),
		lot.OpenQuantity,
		FormatDate(time.Now()),
		FormatDate(model.MaxDate),
		lot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holdings lot: %w", err)
	}

	return nil
}

// OpenLotQuote is one open lot joined with its scrip's current market price.
type OpenLotQuote struct {
	LotID        string
	OpenQuantity float64
	BuyPrice     float64
	CMP          float64
}

// ListOpenLotQuotes returns every open lot joined with its scrip's current
// market price, for the unrealised-P&L refresh.
func (r *HoldingsRepository) ListOpenLotQuotes() ([]OpenLotQuote, error) {
	query := `
		SELECT hl.id, hl.open_quantity, hl.buy_price, s.cmp
		FROM holdings_lot hl
		JOIN scrip s ON hl.scrip_id = s.id
		WHERE hl.open_quantity != 0
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings_lot table: %w", err)
	}
	defer rows.Close()

	quotes := []OpenLotQuote{}
	for rows.Next() {
		var q OpenLotQuote
		if err := rows.Scan(&q.LotID, &q.OpenQuantity, &q.BuyPrice, &q.CMP); err != nil {
			return nil, fmt.Errorf("failed to scan holdings_lot table results: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings_lot table: %w", err)
	}

	return quotes, nil
}

// UpdateLotValuation writes a lot's recomputed unrealised P&L and market
// value. Each call is its own atomic unit so an interrupted refresh run
// never leaves a lot half written.
func (r *HoldingsRepository) UpdateLotValuation(lotID string, unrealisedPnl, marketValue float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`UPDATE holdings_lot SET unrealised_pnl = ?, market_value = ? WHERE id = ?`,
		unrealisedPnl, marketValue, lotID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update lot valuation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lot valuation: %w", err)
	}

	return nil
}

// SumUnrealisedPnl sums unrealised P&L over the client's open,
// firm-owned lots.
func (r *HoldingsRepository) SumUnrealisedPnl(clientID string) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(unrealised_pnl)
		FROM holdings_lot
		WHERE client_id = ? AND open_quantity != 0 AND owned_by = ?
	`, clientID, string(model.OwnedByFirm)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum unrealised pnl: %w", err)
	}
	return sum.Float64, nil
}

// SumMarketValue sums market value over the client's lots filtered by owner
// and funding source.
func (r *HoldingsRepository) SumMarketValue(clientID string, ownedBy model.OwnedBy, source model.FundSource) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(market_value)
		FROM holdings_lot
		WHERE client_id = ? AND owned_by = ? AND fund_source = ?
	`, clientID, string(ownedBy), string(source)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum market value: %w", err)
	}
	return sum.Float64, nil
}

// SumBuyValue sums buy value over the client's lots filtered by owner and
// funding source.
func (r *HoldingsRepository) SumBuyValue(clientID string, ownedBy model.OwnedBy, source model.FundSource) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT SUM(buy_value)
		FROM holdings_lot
		WHERE client_id = ? AND owned_by = ? AND fund_source = ?
	`, clientID, string(ownedBy), string(source)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum buy value: %w", err)
	}
	return sum.Float64, nil
}

// ListMarketValueCashflows returns (buy date, market value) pairs for the
// client's lots filtered by owner and funding source, for the return-rate
// cash-flow series.
func (r *HoldingsRepository) ListMarketValueCashflows(clientID string, ownedBy model.OwnedBy, source model.FundSource) ([]model.LotCashflow, error) {
	return r.listLotCashflows(`
		SELECT buy_date, market_value
		FROM holdings_lot
		WHERE client_id = ? AND owned_by = ? AND fund_source = ?
	`, clientID, ownedBy, source)
}

// ListBuyValueCashflows returns (buy date, buy value) pairs for the
// client's lots filtered by owner and funding source.
func (r *HoldingsRepository) ListBuyValueCashflows(clientID string, ownedBy model.OwnedBy, source model.FundSource) ([]model.LotCashflow, error) {
	return r.listLotCashflows(`
		SELECT buy_date, buy_value
		FROM holdings_lot
		WHERE client_id = ? AND owned_by = ? AND fund_source = ?
	`, clientID, ownedBy, source)
}

func (r *HoldingsRepository) listLotCashflows(query, clientID string, ownedBy model.OwnedBy, source model.FundSource) ([]model.LotCashflow, error) {
	rows, err := r.db.Query(query, clientID, string(ownedBy), string(source))
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings_lot table: %w", err)
	}
	defer rows.Close()

	flows := []model.LotCashflow{}
	for rows.Next() {
		var dateStr string
		var f model.LotCashflow
		if err := rows.Scan(&dateStr, &f.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan holdings_lot table results: %w", err)
		}
		f.BuyDate, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse buy date: %w", err)
		}
		flows = append(flows, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings_lot table: %w", err)
	}

	return flows, nil
}
