package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// ImportService handles the reference-data and admin-override import
// kinds: scrip and CRM master data, and the two per-client override
// figures. Transactional imports (holdings, ledger, realised P&L) live on
// their own services.
type ImportService struct {
	scripRepo  *repository.ScripRepository
	clientRepo *repository.ClientRepository
	cashRepo   *repository.CashRepository
}

// NewImportService creates a new ImportService with the provided repository dependencies.
func NewImportService(
	scripRepo *repository.ScripRepository,
	clientRepo *repository.ClientRepository,
	cashRepo *repository.CashRepository,
) *ImportService {
	return &ImportService{
		scripRepo:  scripRepo,
		clientRepo: clientRepo,
		cashRepo:   cashRepo,
	}
}

// ImportScrips inserts a batch of scrip reference rows, assigning IDs.
// Already-known (scripcode, feed) pairs are skipped so reimporting a feed
// list is harmless; the returned count covers only rows actually inserted.
func (s *ImportService) ImportScrips(scrips []model.Scrip) (int, error) {
	if len(scrips) == 0 {
		return 0, apperrors.ErrEmptyBatch
	}

	for i := range scrips {
		scrips[i].ID = uuid.New().String()
	}

	inserted, err := s.scripRepo.InsertScrips(scrips)
	if err != nil {
		return 0, fmt.Errorf("failed to import scrips: %w", err)
	}
	return inserted, nil
}

// ImportClients inserts a batch of CRM records, assigning IDs. Rows whose
// broker ID already exists are skipped and excluded from the returned count.
func (s *ImportService) ImportClients(clients []model.Client) (int, error) {
	if len(clients) == 0 {
		return 0, apperrors.ErrEmptyBatch
	}

	for i := range clients {
		clients[i].ID = uuid.New().String()
	}

	inserted, err := s.clientRepo.CreateClients(clients)
	if err != nil {
		return 0, fmt.Errorf("failed to import clients: %w", err)
	}
	return inserted, nil
}

// UpsertCurrentLedgerBalance overwrites the admin-supplied brokerage ledger
// balance per client. Zero is a valid balance. Rows are best-effort: a
// broker ID that does not resolve is logged and skipped.
func (s *ImportService) UpsertCurrentLedgerBalance(brokerIDs []string, amounts []float64) (int, error) {
	return s.upsertAmounts(brokerIDs, amounts, s.cashRepo.UpsertCurrentLedgerBalance)
}

// UpsertTodayAlgoPnl overwrites the admin-supplied intraday algo P&L per
// client. Zero is a valid figure (a flat day is still a result).
func (s *ImportService) UpsertTodayAlgoPnl(brokerIDs []string, amounts []float64) (int, error) {
	return s.upsertAmounts(brokerIDs, amounts, s.cashRepo.UpsertTodayAlgoPnl)
}

func (s *ImportService) upsertAmounts(brokerIDs []string, amounts []float64, upsert func(string, float64) error) (int, error) {
	if len(brokerIDs) != len(amounts) {
		return 0, apperrors.ErrArityMismatch
	}
	if len(brokerIDs) == 0 {
		return 0, apperrors.ErrEmptyBatch
	}

	processed := 0
	for i, brokerID := range brokerIDs {
		clientID, err := s.clientRepo.ResolveBrokerID(brokerID)
		if err != nil {
			log.Printf("skipping balance row %d (broker %s): %v", i, brokerID, err)
			continue
		}
		if err := upsert(clientID, amounts[i]); err != nil {
			log.Printf("skipping balance row %d (broker %s): %v", i, brokerID, err)
			continue
		}
		processed++
	}

	return processed, nil
}
