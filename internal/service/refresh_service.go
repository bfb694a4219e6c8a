package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ifinlabs/wealth-reporting-backend/internal/marketdata"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// refreshTimeout bounds one unrealised-P&L refresh run.
const refreshTimeout = 5 * time.Minute

// RefreshService keeps market-derived state current: scrip quotes fetched
// from the vendor feeds, and per-lot unrealised P&L recomputed from those
// quotes. Both operations run on a cron schedule and are also exposed as
// admin endpoints.
type RefreshService struct {
	scripRepo    *repository.ScripRepository
	holdingsRepo *repository.HoldingsRepository
	market       marketdata.Client
}

// NewRefreshService creates a new RefreshService with the provided dependencies.
func NewRefreshService(
	scripRepo *repository.ScripRepository,
	holdingsRepo *repository.HoldingsRepository,
	market marketdata.Client,
) *RefreshService {
	return &RefreshService{
		scripRepo:    scripRepo,
		holdingsRepo: holdingsRepo,
		market:       market,
	}
}

// UpdateQuotes fetches current prices for every scrip and writes them to
// scrip.cmp. Exchange-traded scrips go out as one batch request to the
// brokerage feed; mutual fund NAVs are fetched per scheme, concurrently.
// All prices are collected before any write, so a fetch failure fails the
// whole run without leaving a partial mix of fresh and stale quotes.
func (s *RefreshService) UpdateQuotes(ctx context.Context) (int, error) {
	brokerScrips, err := s.scripRepo.ListByFeed(model.FeedBroker)
	if err != nil {
		return 0, fmt.Errorf("failed to list brokerage scrips: %w", err)
	}
	mfScrips, err := s.scripRepo.ListByFeed(model.FeedMutualFund)
	if err != nil {
		return 0, fmt.Errorf("failed to list mutual fund scrips: %w", err)
	}

	type pricedScrip struct {
		scripcode string
		feed      model.QuoteFeed
		cmp       float64
	}
	prices := []pricedScrip{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	if len(brokerScrips) > 0 {
		reqs := make([]marketdata.QuoteRequest, len(brokerScrips))
		for i, scrip := range brokerScrips {
			reqs[i] = marketdata.QuoteRequest{
				Exchange:     scrip.Exchange,
				ExchangeType: scrip.ExchangeType,
				Scripcode:    scrip.Scripcode,
			}
		}

		g.Go(func() error {
			quotes, err := s.market.BrokerQuotes(gctx, reqs)
			if err != nil {
				return fmt.Errorf("failed to fetch brokerage quotes: %w", err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, scrip := range brokerScrips {
				cmp, ok := quotes[scrip.Scripcode]
				if !ok {
					return fmt.Errorf("brokerage feed returned no quote for %s", scrip.Scripcode)
				}
				prices = append(prices, pricedScrip{scrip.Scripcode, model.FeedBroker, cmp})
			}
			return nil
		})
	}

	for _, scrip := range mfScrips {
		scrip := scrip
		g.Go(func() error {
			nav, err := s.market.MutualFundNAV(gctx, scrip.Scripcode)
			if err != nil {
				return fmt.Errorf("failed to fetch NAV for %s: %w", scrip.Scripcode, err)
			}
			mu.Lock()
			prices = append(prices, pricedScrip{scrip.Scripcode, model.FeedMutualFund, nav})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, p := range prices {
		if err := s.scripRepo.UpdateCMP(p.scripcode, p.feed, p.cmp); err != nil {
			return 0, fmt.Errorf("failed to write quote for %s: %w", p.scripcode, err)
		}
	}

	return len(prices), nil
}

// RefreshUnrealisedPnl recomputes unrealised P&L and market value for every
// open lot from its scrip's current market price. Each lot update is its
// own transaction, so an interrupted run leaves every lot either fully
// refreshed or untouched at its previous value. A lot that fails is logged
// and skipped.
func (s *RefreshService) RefreshUnrealisedPnl(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	lots, err := s.holdingsRepo.ListOpenLotQuotes()
	if err != nil {
		return 0, fmt.Errorf("failed to list open lots: %w", err)
	}

	refreshed := 0
	for _, lot := range lots {
		if err := ctx.Err(); err != nil {
			return refreshed, fmt.Errorf("refresh aborted after %d lots: %w", refreshed, err)
		}

		marketValue := lot.OpenQuantity * lot.CMP
		unrealisedPnl := marketValue - lot.OpenQuantity*lot.BuyPrice

		if err := s.holdingsRepo.UpdateLotValuation(lot.LotID, unrealisedPnl, marketValue); err != nil {
			log.Printf("skipping lot %s valuation: %v", lot.LotID, err)
			continue
		}
		refreshed++
	}

	return refreshed, nil
}
