package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// HoldingsService maintains the per-lot holdings ledger. Buys open new
// lots; sells consume open lots oldest-first, recomputing each touched
// lot's weighted sell price and remaining cost basis. A sell of
// outside-account brokerage stock that reduces cost basis releases cash,
// which is pushed into the cash ledger as an inter-DP stock sale.
type HoldingsService struct {
	holdingsRepo  *repository.HoldingsRepository
	clientRepo    *repository.ClientRepository
	scripRepo     *repository.ScripRepository
	ledgerService *LedgerService
}

// NewHoldingsService creates a new HoldingsService with the provided repository dependencies.
func NewHoldingsService(
	holdingsRepo *repository.HoldingsRepository,
	clientRepo *repository.ClientRepository,
	scripRepo *repository.ScripRepository,
	ledgerService *LedgerService,
) *HoldingsService {
	return &HoldingsService{
		holdingsRepo:  holdingsRepo,
		clientRepo:    clientRepo,
		scripRepo:     scripRepo,
		ledgerService: ledgerService,
	}
}

// RecordTransactions imports a batch of buy/sell transactions. All broker
// IDs and (scripcode, feed) pairs are resolved up front; any miss fails the
// whole batch before a single lot is touched. Buys are then inserted in one
// batch; sells run sequentially in input order, each inside its own
// transaction, because later sells depend on the lot state earlier ones
// leave behind. A failing sell aborts the remainder of the batch.
func (s *HoldingsService) RecordTransactions(trxs []model.HoldingsTrx) error {
	if len(trxs) == 0 {
		return apperrors.ErrEmptyBatch
	}

	brokerIDs := make([]string, len(trxs))
	codes := make([]string, len(trxs))
	feeds := make([]model.QuoteFeed, len(trxs))
	for i, trx := range trxs {
		brokerIDs[i] = trx.BrokerID
		codes[i] = trx.Scripcode
		feeds[i] = trx.QuoteFeed
	}

	clientIDs, err := s.clientRepo.ResolveBrokerIDs(brokerIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve broker ids: %w", err)
	}
	scrips, err := s.scripRepo.ResolveScrips(codes, feeds)
	if err != nil {
		return fmt.Errorf("failed to resolve scrips: %w", err)
	}
	for _, trx := range trxs {
		if _, ok := clientIDs[trx.BrokerID]; !ok {
			return fmt.Errorf("broker id %s: %w", trx.BrokerID, apperrors.ErrClientNotFound)
		}
		if _, ok := scrips[trx.Scripcode+"|"+string(trx.QuoteFeed)]; !ok {
			return fmt.Errorf("scrip %s (%s): %w", trx.Scripcode, trx.QuoteFeed, apperrors.ErrScripNotFound)
		}
	}

	buys := []model.HoldingsLot{}
	sells := []model.HoldingsTrx{}
	for _, trx := range trxs {
		if trx.TrxType == model.TrxBuy {
			buys = append(buys, newLot(trx, clientIDs[trx.BrokerID], scrips[trx.Scripcode+"|"+string(trx.QuoteFeed)].ID))
		} else {
			sells = append(sells, trx)
		}
	}

	if err := s.holdingsRepo.InsertLots(buys); err != nil {
		return fmt.Errorf("failed to insert buy lots: %w", err)
	}

	for _, sell := range sells {
		clientID := clientIDs[sell.BrokerID]
		scripID := scrips[sell.Scripcode+"|"+string(sell.QuoteFeed)].ID
		if err := s.processSell(clientID, scripID, sell); err != nil {
			return err
		}
	}

	return nil
}

// newLot builds the open lot a BUY row creates.
func newLot(trx model.HoldingsTrx, clientID, scripID string) model.HoldingsLot {
	return model.HoldingsLot{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		ScripID:      scripID,
		BuyQuantity:  trx.Quantity,
		BuyPrice:     trx.TrxPrice,
		BuyValue:     trx.Quantity * trx.TrxPrice,
		BuyDate:      trx.TrxDate,
		OpenQuantity: trx.Quantity,
		OwnedBy:      trx.OwnedBy,
		FundSource:   trx.FundSource,
		FromDate:     time.Now(),
		ToDate:       model.MaxDate,
	}
}

// processSell matches one sell row against the client's open lots inside a
// single transaction. Lots are consumed oldest buy first; each touched lot's
// sell price becomes the quantity-weighted average of all its matches, and
// its buy value shrinks to the cost of what stays open.
func (s *HoldingsService) processSell(clientID, scripID string, sell model.HoldingsTrx) error {
	tx, err := s.holdingsRepo.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin sell transaction: %w", err)
	}

	lots, err := s.holdingsRepo.OpenLots(tx, clientID, scripID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to load open lots: %w", err)
	}

	totalOpen := 0.0
	for _, lot := range lots {
		totalOpen += lot.OpenQuantity
	}
	if totalOpen < sell.Quantity {
		tx.Rollback()
		return fmt.Errorf("sell of %v %s exceeds open quantity %v: %w",
			sell.Quantity, sell.Scripcode, totalOpen, apperrors.ErrInsufficientInventory)
	}

	remaining := sell.Quantity
	buyValueReduction := 0.0
	for _, lot := range lots {
		if remaining <= 0 {
			break
		}

		consumed := lot.OpenQuantity
		if remaining < consumed {
			consumed = remaining
		}

		newSellQty := lot.SellQuantity + consumed
		lot.SellPrice = (lot.SellQuantity*lot.SellPrice + consumed*sell.TrxPrice) / newSellQty
		lot.SellQuantity = newSellQty
		lot.SellValue = lot.SellPrice * lot.SellQuantity
		lot.OpenQuantity -= consumed

		newBuyValue := lot.OpenQuantity * lot.BuyPrice
		buyValueReduction += lot.BuyValue - newBuyValue
		lot.BuyValue = newBuyValue

		sellDate := sell.TrxDate
		lot.SellDate = &sellDate

		if err := s.holdingsRepo.UpdateLotSale(tx, lot, sell.TrxDate); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
		}

		remaining -= consumed
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sell transaction: %w", err)
	}

	// Selling outside-account brokerage stock releases its cost basis as
	// cash inside the account.
	if sell.QuoteFeed == model.FeedBroker && sell.FundSource == model.FundSourceOutsideAccount && buyValueReduction > 0 {
		err := s.ledgerService.Append(clientID, buyValueReduction, model.LedgerInterDpStockSold, sell.TrxDate)
		if err != nil {
			return fmt.Errorf("failed to record stock-sold ledger entry: %w", err)
		}
	}

	return nil
}
