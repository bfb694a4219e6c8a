package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// LedgerService maintains the append-only cash ledger and the derived
// invested/withdrawn cash balances. Every cash movement in the system,
// whether imported or generated internally, flows through Append so the
// derived balances never drift from the ledger.
type LedgerService struct {
	ledgerRepo *repository.LedgerRepository
	cashRepo   *repository.CashRepository
	clientRepo *repository.ClientRepository
}

// NewLedgerService creates a new LedgerService with the provided repository dependencies.
func NewLedgerService(
	ledgerRepo *repository.LedgerRepository,
	cashRepo *repository.CashRepository,
	clientRepo *repository.ClientRepository,
) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		cashRepo:   cashRepo,
		clientRepo: clientRepo,
	}
}

// Append records one cash movement and resynchronises the client's derived
// cash balances. The entry is appended first; the capital balance is then
// recomputed from the ledger and compared against the current invested-cash
// row:
//
//   - no current row, or balance above it: the row is superseded (closed at
//     the entry date, a new open-ended row inserted at the new balance)
//   - balance below it: the shortfall accumulates onto withdrawn cash
//   - equal: nothing to do
func (s *LedgerService) Append(clientID string, amount float64, entryType model.LedgerEntryType, date time.Time) error {
	entry := model.LedgerEntry{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Amount:    amount,
		EntryType: entryType,
		FromDate:  date,
		ToDate:    model.MaxDate,
	}
	if err := s.ledgerRepo.Insert(entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	balance, err := s.ledgerRepo.CapitalBalance(clientID)
	if err != nil {
		return fmt.Errorf("failed to recompute capital balance: %w", err)
	}

	current, err := s.cashRepo.CurrentInvestedCash(clientID)
	if err != nil {
		return fmt.Errorf("failed to load current invested cash: %w", err)
	}

	switch {
	case current == nil || balance > current.Amount:
		if err := s.cashRepo.SupersedeInvestedCash(clientID, balance, date); err != nil {
			return fmt.Errorf("failed to supersede invested cash: %w", err)
		}
	case balance < current.Amount:
		if err := s.cashRepo.AccumulateWithdrawnCash(clientID, current.Amount-balance); err != nil {
			return fmt.Errorf("failed to accumulate withdrawn cash: %w", err)
		}
	}

	return nil
}

// ProcessEntries imports a batch of ledger rows. Rows are processed
// sequentially in input order so entries for the same client reconcile
// against each other's effects. A failing row is logged and skipped; rows
// already processed stay committed.
func (s *LedgerService) ProcessEntries(entries []model.LedgerInput) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	processed := 0
	for i, entry := range entries {
		clientID, err := s.clientRepo.ResolveBrokerID(entry.BrokerID)
		if err != nil {
			log.Printf("skipping ledger row %d (broker %s): %v", i, entry.BrokerID, err)
			continue
		}

		if err := s.Append(clientID, entry.Amount, entry.EntryType, entry.Date); err != nil {
			log.Printf("skipping ledger row %d (broker %s): %v", i, entry.BrokerID, err)
			continue
		}
		processed++
	}

	return processed, nil
}
