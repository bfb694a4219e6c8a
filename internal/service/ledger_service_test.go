package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
	"github.com/ifinlabs/wealth-reporting-backend/internal/testutil"
)

// investedCashRows returns the client's invested-cash history ordered by
// from date, open-ended rows reported with toDate == MaxDate.
func investedCashRows(t *testing.T, db *sql.DB, clientID string) []model.InvestedCash {
	t.Helper()

	rows, err := db.Query(`
		SELECT amount, from_date, to_date
		FROM invested_cash
		WHERE client_id = ?
		ORDER BY from_date ASC, rowid ASC
	`, clientID)
	if err != nil {
		t.Fatalf("Failed to query invested cash: %v", err)
	}
	defer rows.Close()

	result := []model.InvestedCash{}
	for rows.Next() {
		var row model.InvestedCash
		var from, to string
		if err := rows.Scan(&row.Amount, &from, &to); err != nil {
			t.Fatalf("Failed to scan invested cash: %v", err)
		}
		row.FromDate, _ = repository.ParseTime(from)
		row.ToDate, _ = repository.ParseTime(to)
		result = append(result, row)
	}
	return result
}

func withdrawnCash(t *testing.T, db *sql.DB, clientID string) *float64 {
	t.Helper()

	var amount float64
	err := db.QueryRow(`SELECT amount FROM withdrawn_cash WHERE client_id = ?`, clientID).Scan(&amount)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		t.Fatalf("Failed to query withdrawn cash: %v", err)
	}
	return &amount
}

// TestLedgerService_Append tests the reconcile step that runs after every
// ledger entry.
//
// WHY: Invested cash and withdrawn cash are both derived from the raw
// ledger; each append must update exactly one of them (or neither) so the
// two views never drift apart.
func TestLedgerService_Append(t *testing.T) {
	t.Run("first investment opens an invested cash row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		date := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		if err := svc.Append(client.ID, 50000, model.LedgerInvestment, date); err != nil {
			t.Fatalf("Append() returned unexpected error: %v", err)
		}

		history := investedCashRows(t, db, client.ID)
		if len(history) != 1 {
			t.Fatalf("Expected 1 invested cash row, got %d", len(history))
		}
		if history[0].Amount != 50000 {
			t.Errorf("Expected invested cash 50000, got %v", history[0].Amount)
		}
		if !history[0].ToDate.Equal(model.MaxDate) {
			t.Errorf("Expected open-ended row, got toDate %v", history[0].ToDate)
		}
		if withdrawnCash(t, db, client.ID) != nil {
			t.Error("Expected no withdrawn cash row after a pure investment")
		}
	})

	t.Run("balance increase supersedes the current invested cash row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		day1 := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		if err := svc.Append(client.ID, 50000, model.LedgerInvestment, day1); err != nil {
			t.Fatalf("First append returned unexpected error: %v", err)
		}
		if err := svc.Append(client.ID, 20000, model.LedgerInvestment, day1.AddDate(0, 1, 0)); err != nil {
			t.Fatalf("Second append returned unexpected error: %v", err)
		}

		history := investedCashRows(t, db, client.ID)
		if len(history) != 2 {
			t.Fatalf("Expected 2 invested cash rows, got %d", len(history))
		}
		if history[0].ToDate.Equal(model.MaxDate) {
			t.Error("Expected first row to be closed after supersede")
		}
		if history[1].Amount != 70000 || !history[1].ToDate.Equal(model.MaxDate) {
			t.Errorf("Expected open row of 70000, got %v (toDate %v)", history[1].Amount, history[1].ToDate)
		}
	})

	t.Run("balance decrease accumulates withdrawn cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		day1 := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		if err := svc.Append(client.ID, 50000, model.LedgerInvestment, day1); err != nil {
			t.Fatalf("Investment append returned unexpected error: %v", err)
		}
		if err := svc.Append(client.ID, -10000, model.LedgerInvestment, day1.AddDate(0, 1, 0)); err != nil {
			t.Fatalf("Withdrawal append returned unexpected error: %v", err)
		}

		got := withdrawnCash(t, db, client.ID)
		if got == nil || *got != 10000 {
			t.Fatalf("Expected withdrawn cash 10000, got %v", got)
		}

		// Invested cash keeps its last value; the decrease only feeds the
		// withdrawn side.
		history := investedCashRows(t, db, client.ID)
		if len(history) != 1 || history[0].Amount != 50000 {
			t.Fatalf("Expected invested cash history untouched at 50000, got %+v", history)
		}

		// The shortfall is measured against the standing invested row, not
		// the previous balance, so each decrease accumulates the full gap:
		// 10000 + (50000 - 35000) = 25000.
		if err := svc.Append(client.ID, -5000, model.LedgerInvestment, day1.AddDate(0, 2, 0)); err != nil {
			t.Fatalf("Second withdrawal append returned unexpected error: %v", err)
		}
		got = withdrawnCash(t, db, client.ID)
		if got == nil || *got != 25000 {
			t.Fatalf("Expected withdrawn cash 25000 after second withdrawal, got %v", got)
		}
	})

	t.Run("unchanged balance touches neither derived view", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		day1 := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		if err := svc.Append(client.ID, 50000, model.LedgerInvestment, day1); err != nil {
			t.Fatalf("Investment append returned unexpected error: %v", err)
		}
		if err := svc.Append(client.ID, 0, model.LedgerInvestment, day1.AddDate(0, 1, 0)); err != nil {
			t.Fatalf("Zero append returned unexpected error: %v", err)
		}

		history := investedCashRows(t, db, client.ID)
		if len(history) != 1 {
			t.Fatalf("Expected invested cash history of 1 row, got %d", len(history))
		}
		if withdrawnCash(t, db, client.ID) != nil {
			t.Error("Expected no withdrawn cash row")
		}
	})

	t.Run("charges do not move the capital balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		day1 := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		if err := svc.Append(client.ID, 50000, model.LedgerInvestment, day1); err != nil {
			t.Fatalf("Investment append returned unexpected error: %v", err)
		}
		if err := svc.Append(client.ID, -250, model.LedgerCharges, day1.AddDate(0, 1, 0)); err != nil {
			t.Fatalf("Charges append returned unexpected error: %v", err)
		}

		// The charge is stored but excluded from the capital balance, so
		// neither derived view moves.
		testutil.AssertRowCount(t, db, "ledger", 2)
		history := investedCashRows(t, db, client.ID)
		if len(history) != 1 || history[0].Amount != 50000 {
			t.Fatalf("Expected invested cash untouched at 50000, got %+v", history)
		}
		if withdrawnCash(t, db, client.ID) != nil {
			t.Error("Expected no withdrawn cash row after a charge")
		}
	})
}

// TestLedgerService_ProcessEntries tests the batch import wrapper.
//
// WHY: Ledger imports arrive from an upstream system with occasional bad
// rows; one unknown broker ID must not sink the rest of the batch.
func TestLedgerService_ProcessEntries(t *testing.T) {
	t.Run("skips unresolvable rows and processes the rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		client := testutil.NewClient().Build(t, db)

		date := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
		processed, err := svc.ProcessEntries([]model.LedgerInput{
			{BrokerID: client.BrokerID, Amount: 50000, EntryType: model.LedgerInvestment, Date: date},
			{BrokerID: "UNKNOWN", Amount: 1000, EntryType: model.LedgerInvestment, Date: date},
			{BrokerID: client.BrokerID, Amount: 20000, EntryType: model.LedgerInvestment, Date: date.AddDate(0, 0, 1)},
		})
		if err != nil {
			t.Fatalf("ProcessEntries() returned unexpected error: %v", err)
		}
		if processed != 2 {
			t.Errorf("Expected 2 processed rows, got %d", processed)
		}

		testutil.AssertRowCount(t, db, "ledger", 2)

		history := investedCashRows(t, db, client.ID)
		if len(history) == 0 || history[len(history)-1].Amount != 70000 {
			t.Fatalf("Expected final invested cash 70000, got %+v", history)
		}
	})

	t.Run("empty batch processes nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)

		processed, err := svc.ProcessEntries(nil)
		if err != nil {
			t.Fatalf("ProcessEntries() returned unexpected error: %v", err)
		}
		if processed != 0 {
			t.Errorf("Expected 0 processed rows, got %d", processed)
		}
	})
}
