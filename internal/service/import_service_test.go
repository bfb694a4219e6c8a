package service_test

import (
	"errors"
	"testing"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/testutil"
)

// TestImportService_ImportScrips tests scrip reference-data imports.
//
// WHY: Feed lists are reimported wholesale whenever the upstream universe
// changes; known scrips must be skipped so a reimport never duplicates or
// overwrites existing reference rows.
func TestImportService_ImportScrips(t *testing.T) {
	t.Run("inserts new scrips with assigned ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		processed, err := svc.ImportScrips([]model.Scrip{
			{Name: "Reliance Industries", Scripcode: "500325", Exchange: "N", ExchangeType: "C", QuoteFeed: model.FeedBroker},
			{Name: "HDFC Flexi Cap", Scripcode: "101762", QuoteFeed: model.FeedMutualFund},
		})
		if err != nil {
			t.Fatalf("ImportScrips() returned unexpected error: %v", err)
		}
		if processed != 2 {
			t.Errorf("Expected 2 processed scrips, got %d", processed)
		}

		testutil.AssertRowCount(t, db, "scrip", 2)
	})

	t.Run("reimporting known scrips is harmless", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		existing := testutil.NewScrip().WithCMP(150).Build(t, db)

		processed, err := svc.ImportScrips([]model.Scrip{
			{Name: "Renamed", Scripcode: existing.Scripcode, Exchange: "N", ExchangeType: "C", QuoteFeed: model.FeedBroker},
		})
		if err != nil {
			t.Fatalf("ImportScrips() returned unexpected error: %v", err)
		}
		if processed != 0 {
			t.Errorf("Expected 0 inserted scrips, got %d", processed)
		}

		testutil.AssertRowCount(t, db, "scrip", 1)

		// The existing row keeps its state, including the quoted price.
		var cmp float64
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, existing.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read cmp: %v", err)
		}
		if cmp != 150 {
			t.Errorf("Expected cmp unchanged at 150, got %v", cmp)
		}
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		if _, err := svc.ImportScrips(nil); !errors.Is(err, apperrors.ErrEmptyBatch) {
			t.Fatalf("Expected ErrEmptyBatch, got %v", err)
		}
	})
}

// TestImportService_ImportClients tests CRM imports.
func TestImportService_ImportClients(t *testing.T) {
	t.Run("inserts new clients and skips known broker ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		existing := testutil.NewClient().WithName("Asha Mehta").Build(t, db)

		processed, err := svc.ImportClients([]model.Client{
			{BrokerID: testutil.MakeBrokerID(), ClientName: "Rahul Verma"},
			{BrokerID: existing.BrokerID, ClientName: "Renamed"},
		})
		if err != nil {
			t.Fatalf("ImportClients() returned unexpected error: %v", err)
		}
		if processed != 1 {
			t.Errorf("Expected 1 inserted row, got %d", processed)
		}

		testutil.AssertRowCount(t, db, "crm", 2)

		var name string
		if err := db.QueryRow(`SELECT client_name FROM crm WHERE id = ?`, existing.ID).Scan(&name); err != nil {
			t.Fatalf("Failed to read client name: %v", err)
		}
		if name != "Asha Mehta" {
			t.Errorf("Expected existing client untouched, got name %q", name)
		}
	})
}

// TestImportService_BalanceUpserts tests the two admin override imports.
//
// WHY: These are overwrite-on-each-import figures, and zero is a
// legitimate value — a flat trading day must not be mistaken for missing
// data.
func TestImportService_BalanceUpserts(t *testing.T) {
	t.Run("overwrites on reimport", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		client := testutil.NewClient().Build(t, db)

		if _, err := svc.UpsertCurrentLedgerBalance([]string{client.BrokerID}, []float64{42000}); err != nil {
			t.Fatalf("First upsert returned unexpected error: %v", err)
		}
		if _, err := svc.UpsertCurrentLedgerBalance([]string{client.BrokerID}, []float64{43500}); err != nil {
			t.Fatalf("Second upsert returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "current_ledger_balance", 1)

		var amount float64
		err := db.QueryRow(`SELECT amount FROM current_ledger_balance WHERE client_id = ?`, client.ID).Scan(&amount)
		if err != nil {
			t.Fatalf("Failed to read balance: %v", err)
		}
		if amount != 43500 {
			t.Errorf("Expected balance 43500, got %v", amount)
		}
	})

	t.Run("zero is a valid amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		client := testutil.NewClient().Build(t, db)

		processed, err := svc.UpsertTodayAlgoPnl([]string{client.BrokerID}, []float64{0})
		if err != nil {
			t.Fatalf("UpsertTodayAlgoPnl() returned unexpected error: %v", err)
		}
		if processed != 1 {
			t.Errorf("Expected 1 processed row, got %d", processed)
		}

		var amount float64
		err = db.QueryRow(`SELECT amount FROM today_algo_pnl WHERE client_id = ?`, client.ID).Scan(&amount)
		if err != nil {
			t.Fatalf("Expected a row for the zero amount: %v", err)
		}
		if amount != 0 {
			t.Errorf("Expected amount 0, got %v", amount)
		}
	})

	t.Run("skips unresolvable broker ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		client := testutil.NewClient().Build(t, db)

		processed, err := svc.UpsertCurrentLedgerBalance(
			[]string{"UNKNOWN", client.BrokerID},
			[]float64{100, 42000},
		)
		if err != nil {
			t.Fatalf("UpsertCurrentLedgerBalance() returned unexpected error: %v", err)
		}
		if processed != 1 {
			t.Errorf("Expected 1 processed row, got %d", processed)
		}

		testutil.AssertRowCount(t, db, "current_ledger_balance", 1)
	})

	t.Run("mismatched arrays are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		_, err := svc.UpsertCurrentLedgerBalance([]string{"A", "B"}, []float64{100})
		if !errors.Is(err, apperrors.ErrArityMismatch) {
			t.Fatalf("Expected ErrArityMismatch, got %v", err)
		}
	})
}
