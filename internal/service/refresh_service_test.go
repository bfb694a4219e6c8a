package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/testutil"
)

// TestRefreshService_UpdateQuotes tests the scheduled quote refresh.
//
// WHY: Quotes drive every market-value figure on the dashboard; a partial
// refresh would mix fresh and stale prices within one report, which is
// worse than serving a uniformly stale one.
func TestRefreshService_UpdateQuotes(t *testing.T) {
	t.Run("writes fresh prices for both feeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		stock := testutil.NewScrip().WithCMP(100).Build(t, db)
		fund := testutil.NewScrip().WithQuoteFeed(model.FeedMutualFund).WithCMP(50).Build(t, db)

		market := testutil.NewMockMarketClient().
			WithBrokerPrice(stock.Scripcode, 112.5).
			WithNAV(fund.Scripcode, 53.2)
		svc := testutil.NewTestRefreshService(t, db, market)

		updated, err := svc.UpdateQuotes(context.Background())
		if err != nil {
			t.Fatalf("UpdateQuotes() returned unexpected error: %v", err)
		}
		if updated != 2 {
			t.Errorf("Expected 2 updated scrips, got %d", updated)
		}

		var cmp float64
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, stock.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read stock cmp: %v", err)
		}
		if cmp != 112.5 {
			t.Errorf("Expected stock cmp 112.5, got %v", cmp)
		}
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, fund.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read fund cmp: %v", err)
		}
		if cmp != 53.2 {
			t.Errorf("Expected fund cmp 53.2, got %v", cmp)
		}
	})

	t.Run("feed failure leaves all prices untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		stock := testutil.NewScrip().WithCMP(100).Build(t, db)
		fund := testutil.NewScrip().WithQuoteFeed(model.FeedMutualFund).WithCMP(50).Build(t, db)

		market := testutil.NewMockMarketClient().WithError(errors.New("feed down"))
		svc := testutil.NewTestRefreshService(t, db, market)

		if _, err := svc.UpdateQuotes(context.Background()); err == nil {
			t.Fatal("Expected UpdateQuotes() to fail when the feed is down")
		}

		var cmp float64
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, stock.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read stock cmp: %v", err)
		}
		if cmp != 100 {
			t.Errorf("Expected stock cmp unchanged at 100, got %v", cmp)
		}
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, fund.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read fund cmp: %v", err)
		}
		if cmp != 50 {
			t.Errorf("Expected fund cmp unchanged at 50, got %v", cmp)
		}
	})

	t.Run("missing brokerage quote fails the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quoted := testutil.NewScrip().WithCMP(100).Build(t, db)
		unquoted := testutil.NewScrip().WithCMP(200).Build(t, db)

		market := testutil.NewMockMarketClient().WithBrokerPrice(quoted.Scripcode, 110)
		svc := testutil.NewTestRefreshService(t, db, market)

		if _, err := svc.UpdateQuotes(context.Background()); err == nil {
			t.Fatal("Expected UpdateQuotes() to fail when a quote is missing")
		}

		// The scrip that did get a quote is not written either.
		var cmp float64
		if err := db.QueryRow(`SELECT cmp FROM scrip WHERE id = ?`, unquoted.ID).Scan(&cmp); err != nil {
			t.Fatalf("Failed to read cmp: %v", err)
		}
		if cmp != 200 {
			t.Errorf("Expected cmp unchanged at 200, got %v", cmp)
		}
	})

	t.Run("no scrips is a successful empty run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRefreshService(t, db, testutil.NewMockMarketClient())

		updated, err := svc.UpdateQuotes(context.Background())
		if err != nil {
			t.Fatalf("UpdateQuotes() returned unexpected error: %v", err)
		}
		if updated != 0 {
			t.Errorf("Expected 0 updated scrips, got %d", updated)
		}
	})
}

// TestRefreshService_RefreshUnrealisedPnl tests the per-lot valuation
// recompute.
//
// WHY: Unrealised P&L is stored, not computed on read, so the refresh is
// the only thing keeping lot valuations honest after a quote update.
func TestRefreshService_RefreshUnrealisedPnl(t *testing.T) {
	t.Run("recomputes open lots from the current price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRefreshService(t, db, testutil.NewMockMarketClient())
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().WithCMP(12).Build(t, db)

		// 100 open units bought at 10, now quoted at 12.
		lot := testutil.NewLot(client.ID, scrip.ID).Build(t, db)
		// A closed lot stays untouched.
		closed := testutil.NewLot(client.ID, scrip.ID).
			WithOpenQuantity(0).
			WithValuation(0, 0).
			Build(t, db)

		refreshed, err := svc.RefreshUnrealisedPnl(context.Background())
		if err != nil {
			t.Fatalf("RefreshUnrealisedPnl() returned unexpected error: %v", err)
		}
		if refreshed != 1 {
			t.Errorf("Expected 1 refreshed lot, got %d", refreshed)
		}

		var unrealised, marketValue float64
		err = db.QueryRow(`SELECT unrealised_pnl, market_value FROM holdings_lot WHERE id = ?`, lot.ID).
			Scan(&unrealised, &marketValue)
		if err != nil {
			t.Fatalf("Failed to read lot valuation: %v", err)
		}
		if marketValue != 1200 {
			t.Errorf("Expected market value 1200, got %v", marketValue)
		}
		if unrealised != 200 {
			t.Errorf("Expected unrealised pnl 200, got %v", unrealised)
		}

		err = db.QueryRow(`SELECT unrealised_pnl, market_value FROM holdings_lot WHERE id = ?`, closed.ID).
			Scan(&unrealised, &marketValue)
		if err != nil {
			t.Fatalf("Failed to read closed lot valuation: %v", err)
		}
		if unrealised != 0 || marketValue != 0 {
			t.Errorf("Expected closed lot untouched, got pnl %v / mv %v", unrealised, marketValue)
		}
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRefreshService(t, db, testutil.NewMockMarketClient())
		client := testutil.NewClient().Build(t, db)
		scrip := testutil.NewScrip().Build(t, db)
		testutil.NewLot(client.ID, scrip.ID).Build(t, db)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.RefreshUnrealisedPnl(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
	})
}
