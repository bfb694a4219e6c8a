package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// PnlService routes realised P&L events to their destination table.
// Firm-contributed P&L is the firm's trading result and lands in
// realised_pnl; customer-contributed P&L is the customer's own money
// arriving in the account, so it is rerouted into the cash ledger where it
// raises invested cash like any other deposit.
type PnlService struct {
	pnlRepo       *repository.PnlRepository
	clientRepo    *repository.ClientRepository
	ledgerService *LedgerService
}

// NewPnlService creates a new PnlService with the provided repository dependencies.
func NewPnlService(
	pnlRepo *repository.PnlRepository,
	clientRepo *repository.ClientRepository,
	ledgerService *LedgerService,
) *PnlService {
	return &PnlService{
		pnlRepo:       pnlRepo,
		clientRepo:    clientRepo,
		ledgerService: ledgerService,
	}
}

// ProcessEntries imports a batch of realised P&L rows. All broker IDs are
// resolved up front; an unresolvable ID fails the whole batch before any
// mutation. Rows are then processed best-effort: a failing row is logged
// and skipped while the rest of the batch proceeds.
func (s *PnlService) ProcessEntries(entries []model.RealisedPnlInput) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	brokerIDs := make([]string, len(entries))
	for i, entry := range entries {
		brokerIDs[i] = entry.BrokerID
	}
	clientIDs, err := s.clientRepo.ResolveBrokerIDs(brokerIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve broker ids: %w", err)
	}
	for _, brokerID := range brokerIDs {
		if _, ok := clientIDs[brokerID]; !ok {
			return 0, fmt.Errorf("broker id %s: %w", brokerID, apperrors.ErrClientNotFound)
		}
	}

	processed := 0
	for i, entry := range entries {
		clientID := clientIDs[entry.BrokerID]

		if entry.ContributedBy == model.ContributedByCustomer {
			// Customer money is a capital movement, not trading P&L.
			err := s.ledgerService.Append(clientID, entry.Pnl, model.LedgerCustomerContributedPnl, entry.Date)
			if err != nil {
				log.Printf("skipping pnl row %d (broker %s): %v", i, entry.BrokerID, err)
				continue
			}
			processed++
			continue
		}

		row := model.RealisedPnl{
			ID:            uuid.New().String(),
			ClientID:      clientID,
			Pnl:           entry.Pnl,
			EntryType:     entry.EntryType,
			ContributedBy: entry.ContributedBy,
			FromDate:      entry.Date,
			ToDate:        model.MaxDate,
		}
		if err := s.pnlRepo.InsertRows([]model.RealisedPnl{row}); err != nil {
			log.Printf("skipping pnl row %d (broker %s): %v", i, entry.BrokerID, err)
			continue
		}
		processed++
	}

	return processed, nil
}
