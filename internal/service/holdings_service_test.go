package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/testutil"
)

// lotState is the lot shape the FIFO assertions inspect.
type lotState struct {
	BuyValue     float64
	SellQuantity float64
	SellPrice    float64
	SellValue    float64
	OpenQuantity float64
}

func loadLots(t *testing.T, db *sql.DB, clientID, scripID string) []lotState {
	t.Helper()

	rows, err := db.Query(`
		SELECT buy_value, sell_quantity, sell_price, sell_value, open_quantity
		FROM holdings_lot
		WHERE client_id = ? AND scrip_id = ?
		ORDER BY buy_date ASC, rowid ASC
	`, clientID, scripID)
	if err != nil {
		t.Fatalf("Failed to query lots: %v", err)
	}
	defer rows.Close()

	lots := []lotState{}
	for rows.Next() {
		var l lotState
		if err := rows.Scan(&l.BuyValue, &l.SellQuantity, &l.SellPrice, &l.SellValue, &l.OpenQuantity); err != nil {
			t.Fatalf("Failed to scan lot: %v", err)
		}
		lots = append(lots, l)
	}
	return lots
}

func buyTrx(brokerID, scripcode string, qty, price float64, date time.Time) model.HoldingsTrx {
	return model.HoldingsTrx{
		BrokerID:   brokerID,
		Scripcode:  scripcode,
		QuoteFeed:  model.FeedBroker,
		TrxType:    model.TrxBuy,
		TrxPrice:   price,
		Quantity:   qty,
		TrxDate:    date,
		OwnedBy:    model.OwnedByFirm,
		FundSource: model.FundSourceInsideAccount,
	}
}

func sellTrx(brokerID, scripcode string, qty, price float64, date time.Time) model.HoldingsTrx {
	trx := buyTrx(brokerID, scripcode, qty, price, date)
	trx.TrxType = model.TrxSell
	return trx
}

// TestHoldingsService_RecordTransactions_Buys tests lot creation from BUY rows.
//
// WHY: Every downstream aggregate (unrealised P&L, invested assets, FIFO
// matching) reads lot state, so a BUY must open exactly one lot with the
// right cost basis.
func TestHoldingsService_RecordTransactions_Buys(t *testing.T) {
	t.Run("creates one open lot per buy row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1),
			buyTrx(client.BrokerID, scrip.Scripcode, 50, 12, day1.AddDate(0, 1, 0)),
		})
		if err != nil {
			t.Fatalf("RecordTransactions() returned unexpected error: %v", err)
		}

		lots := loadLots(t, db, client.ID, scrip.ID)
		if len(lots) != 2 {
			t.Fatalf("Expected 2 lots, got %d", len(lots))
		}
		if lots[0].OpenQuantity != 100 || lots[0].BuyValue != 1000 {
			t.Errorf("Lot A: expected open 100 / buy value 1000, got %v / %v", lots[0].OpenQuantity, lots[0].BuyValue)
		}
		if lots[1].OpenQuantity != 50 || lots[1].BuyValue != 600 {
			t.Errorf("Lot B: expected open 50 / buy value 600, got %v / %v", lots[1].OpenQuantity, lots[1].BuyValue)
		}
	})

	t.Run("fails whole batch when a broker id is unknown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day),
			buyTrx("UNKNOWN", scrip.Scripcode, 50, 12, day),
		})
		if !errors.Is(err, apperrors.ErrClientNotFound) {
			t.Fatalf("Expected ErrClientNotFound, got %v", err)
		}

		testutil.AssertRowCount(t, db, "holdings_lot", 0)
	})

	t.Run("fails whole batch when a scrip is unknown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)

		day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, "NOSUCH", 100, 10, day),
		})
		if !errors.Is(err, apperrors.ErrScripNotFound) {
			t.Fatalf("Expected ErrScripNotFound, got %v", err)
		}

		testutil.AssertRowCount(t, db, "holdings_lot", 0)
	})

	t.Run("rerunning the same buy batch doubles lot quantities", func(t *testing.T) {
		// Imports are deliberately not idempotent; this guards against an
		// accidental dedup that would silently change semantics.
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		batch := []model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)),
		}
		if err := svc.RecordTransactions(batch); err != nil {
			t.Fatalf("First run returned unexpected error: %v", err)
		}
		if err := svc.RecordTransactions(batch); err != nil {
			t.Fatalf("Second run returned unexpected error: %v", err)
		}

		var totalOpen float64
		if err := db.QueryRow(`SELECT SUM(open_quantity) FROM holdings_lot`).Scan(&totalOpen); err != nil {
			t.Fatalf("Failed to sum open quantity: %v", err)
		}
		if totalOpen != 200 {
			t.Errorf("Expected total open quantity 200 after rerun, got %v", totalOpen)
		}
	})
}

// TestHoldingsService_RecordTransactions_FIFOSell tests the FIFO sell
// matching.
//
// WHY: This is the core reconciliation algorithm. Consuming the wrong lots,
// or miscomputing the weighted sell price or remaining cost basis, corrupts
// every report built on lot state.
func TestHoldingsService_RecordTransactions_FIFOSell(t *testing.T) {
	t.Run("consumes oldest lots first and reprices touched lots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1),
			buyTrx(client.BrokerID, scrip.Scripcode, 50, 12, day1.AddDate(0, 0, 1)),
			sellTrx(client.BrokerID, scrip.Scripcode, 130, 15, day1.AddDate(0, 0, 2)),
		})
		if err != nil {
			t.Fatalf("RecordTransactions() returned unexpected error: %v", err)
		}

		lots := loadLots(t, db, client.ID, scrip.ID)
		if len(lots) != 2 {
			t.Fatalf("Expected 2 lots, got %d", len(lots))
		}

		// Lot A (oldest) fully closed.
		a := lots[0]
		if a.OpenQuantity != 0 || a.SellQuantity != 100 || a.SellPrice != 15 || a.SellValue != 1500 || a.BuyValue != 0 {
			t.Errorf("Lot A: expected open 0 / sellQty 100 / sellPrice 15 / sellValue 1500 / buyValue 0, got %+v", a)
		}

		// Lot B partially closed: 30 of 50 consumed, cost basis shrinks to
		// the 20 units still open.
		b := lots[1]
		if b.OpenQuantity != 20 || b.SellQuantity != 30 || b.SellPrice != 15 || b.BuyValue != 240 {
			t.Errorf("Lot B: expected open 20 / sellQty 30 / sellPrice 15 / buyValue 240, got %+v", b)
		}

		// Total buy-value reduction: (1000 - 0) + (600 - 240) = 1360.
		totalBuyValue := a.BuyValue + b.BuyValue
		if totalBuyValue != 240 {
			t.Errorf("Expected remaining buy value 240, got %v", totalBuyValue)
		}
	})

	t.Run("weighted sell price averages across multiple sells", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1),
			sellTrx(client.BrokerID, scrip.Scripcode, 50, 12, day1.AddDate(0, 0, 1)),
			sellTrx(client.BrokerID, scrip.Scripcode, 50, 16, day1.AddDate(0, 0, 2)),
		})
		if err != nil {
			t.Fatalf("RecordTransactions() returned unexpected error: %v", err)
		}

		lots := loadLots(t, db, client.ID, scrip.ID)
		if len(lots) != 1 {
			t.Fatalf("Expected 1 lot, got %d", len(lots))
		}

		// (50*12 + 50*16) / 100 = 14
		lot := lots[0]
		if lot.SellQuantity != 100 || lot.SellPrice != 14 || lot.SellValue != 1400 || lot.OpenQuantity != 0 {
			t.Errorf("Expected sellQty 100 / sellPrice 14 / sellValue 1400 / open 0, got %+v", lot)
		}
	})

	t.Run("rejects over-sell and leaves lots unmodified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		if err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1),
		}); err != nil {
			t.Fatalf("Buy batch returned unexpected error: %v", err)
		}

		err := svc.RecordTransactions([]model.HoldingsTrx{
			sellTrx(client.BrokerID, scrip.Scripcode, 150, 15, day1.AddDate(0, 0, 1)),
		})
		if !errors.Is(err, apperrors.ErrInsufficientInventory) {
			t.Fatalf("Expected ErrInsufficientInventory, got %v", err)
		}

		lots := loadLots(t, db, client.ID, scrip.ID)
		if lots[0].OpenQuantity != 100 || lots[0].SellQuantity != 0 || lots[0].BuyValue != 1000 {
			t.Errorf("Expected lot untouched after rejected sell, got %+v", lots[0])
		}
	})
}

// TestHoldingsService_RecordTransactions_StockSoldLedgerEntry tests the
// cash-ledger side effect of selling outside-account brokerage stock.
//
// WHY: Selling stock the client brought in from outside releases its cost
// basis as cash inside the account; if the ledger entry is missed the
// invested-cash balance silently drifts from reality.
func TestHoldingsService_RecordTransactions_StockSoldLedgerEntry(t *testing.T) {
	t.Run("emits inter-DP entry and resyncs invested cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		buy := buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1)
		buy.FundSource = model.FundSourceOutsideAccount
		sell := sellTrx(client.BrokerID, scrip.Scripcode, 40, 15, day1.AddDate(0, 0, 1))
		sell.FundSource = model.FundSourceOutsideAccount

		if err := svc.RecordTransactions([]model.HoldingsTrx{buy, sell}); err != nil {
			t.Fatalf("RecordTransactions() returned unexpected error: %v", err)
		}

		var amount float64
		var entryType string
		err := db.QueryRow(`SELECT amount, entry_type FROM ledger WHERE client_id = ?`, client.ID).
			Scan(&amount, &entryType)
		if err != nil {
			t.Fatalf("Expected one ledger entry: %v", err)
		}
		if entryType != string(model.LedgerInterDpStockSold) {
			t.Errorf("Expected entry type INTER_DP_STOCK_SOLD, got %s", entryType)
		}
		// 40 units released at buy price 10.
		if amount != 400 {
			t.Errorf("Expected released cost basis 400, got %v", amount)
		}

		// The ledger append resyncs invested cash to the new capital balance.
		var invested float64
		err = db.QueryRow(`SELECT amount FROM invested_cash WHERE client_id = ?`, client.ID).Scan(&invested)
		if err != nil {
			t.Fatalf("Expected invested cash row: %v", err)
		}
		if invested != 400 {
			t.Errorf("Expected invested cash 400, got %v", invested)
		}
	})

	t.Run("no ledger entry for inside-account sells", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingsService(t, db)
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)

		day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		if err := svc.RecordTransactions([]model.HoldingsTrx{
			buyTrx(client.BrokerID, scrip.Scripcode, 100, 10, day1),
			sellTrx(client.BrokerID, scrip.Scripcode, 40, 15, day1.AddDate(0, 0, 1)),
		}); err != nil {
			t.Fatalf("RecordTransactions() returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "ledger", 0)
	})
}
