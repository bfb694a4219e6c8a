package service

import (
	"sort"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// ValuationService computes the per-client report metrics. All methods are
// read-only: they aggregate persisted lot, ledger and P&L state, never
// mutate it.
type ValuationService struct {
	holdingsRepo *repository.HoldingsRepository
	ledgerRepo   *repository.LedgerRepository
	cashRepo     *repository.CashRepository
	pnlRepo      *repository.PnlRepository
	clientRepo   *repository.ClientRepository
}

// NewValuationService creates a new ValuationService with the provided repository dependencies.
func NewValuationService(
	holdingsRepo *repository.HoldingsRepository,
	ledgerRepo *repository.LedgerRepository,
	cashRepo *repository.CashRepository,
	pnlRepo *repository.PnlRepository,
	clientRepo *repository.ClientRepository,
) *ValuationService {
	return &ValuationService{
		holdingsRepo: holdingsRepo,
		ledgerRepo:   ledgerRepo,
		cashRepo:     cashRepo,
		pnlRepo:      pnlRepo,
		clientRepo:   clientRepo,
	}
}

// InvestedCash returns the client's current invested-cash amount, or nil
// when no invested-cash row exists yet. Absence is not an error: a client
// with no ledger activity simply has nothing to report.
func (s *ValuationService) InvestedCash(clientID string) (*float64, error) {
	current, err := s.cashRepo.CurrentInvestedCash(clientID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	return &current.Amount, nil
}

// WithdrawnCash returns the client's accumulated withdrawn-cash amount, or
// nil when nothing has ever been withdrawn.
func (s *ValuationService) WithdrawnCash(clientID string) (*float64, error) {
	return s.cashRepo.GetWithdrawnCash(clientID)
}

// DeployedCash returns invested cash plus the firm's lifetime realised P&L
// minus withdrawn cash: the money actually working in the account. Nil when
// the client has no invested-cash row.
func (s *ValuationService) DeployedCash(clientID string) (*float64, error) {
	invested, err := s.cashRepo.CurrentInvestedCash(clientID)
	if err != nil {
		return nil, err
	}
	if invested == nil {
		return nil, nil
	}

	firmPnl, err := s.pnlRepo.SumFirmPnl(clientID)
	if err != nil {
		return nil, err
	}

	withdrawn, err := s.cashRepo.GetWithdrawnCash(clientID)
	if err != nil {
		return nil, err
	}

	deployed := invested.Amount + firmPnl
	if withdrawn != nil {
		deployed -= *withdrawn
	}
	return &deployed, nil
}

// InvestedAssets returns the value of assets brought in from outside the
// account: customer-owned lots at current market value plus firm-owned lots
// at cost.
func (s *ValuationService) InvestedAssets(clientID string) (float64, error) {
	customerAssets, err := s.holdingsRepo.SumMarketValue(clientID, model.OwnedByCustomer, model.FundSourceOutsideAccount)
	if err != nil {
		return 0, err
	}
	firmAssets, err := s.holdingsRepo.SumBuyValue(clientID, model.OwnedByFirm, model.FundSourceOutsideAccount)
	if err != nil {
		return 0, err
	}
	return customerAssets + firmAssets, nil
}

// UnrealisedPnl returns the total unrealised P&L over the client's open
// firm-owned lots.
func (s *ValuationService) UnrealisedPnl(clientID string) (float64, error) {
	return s.holdingsRepo.SumUnrealisedPnl(clientID)
}

// RealisedPnlSeries returns firm-contributed realised P&L summed per day
// within the inclusive date range.
func (s *ValuationService) RealisedPnlSeries(clientID string, from, to time.Time) ([]model.DailyPnl, error) {
	if from.After(to) {
		return nil, apperrors.ErrInvalidDateRange
	}
	return s.pnlRepo.DailySeries(clientID, from, to)
}

// TotalRealisedPnl returns firm-contributed realised P&L within the
// inclusive date range, net of the client's all-time charges.
func (s *ValuationService) TotalRealisedPnl(clientID string, from, to time.Time) (float64, error) {
	if from.After(to) {
		return 0, apperrors.ErrInvalidDateRange
	}

	rangePnl, err := s.pnlRepo.SumFirmPnlInRange(clientID, from, to)
	if err != nil {
		return 0, err
	}
	charges, err := s.ledgerRepo.SumCharges(clientID)
	if err != nil {
		return 0, err
	}
	return rangePnl + charges, nil
}

// TotalPnl returns the client's lifetime P&L: realised firm P&L, charges
// (normally negative) and unrealised P&L on open positions.
func (s *ValuationService) TotalPnl(clientID string) (float64, error) {
	firmPnl, err := s.pnlRepo.SumFirmPnl(clientID)
	if err != nil {
		return 0, err
	}
	charges, err := s.ledgerRepo.SumCharges(clientID)
	if err != nil {
		return 0, err
	}
	unrealised, err := s.holdingsRepo.SumUnrealisedPnl(clientID)
	if err != nil {
		return 0, err
	}
	return firmPnl + charges + unrealised, nil
}

// TotalPnlRate returns the client's annualised money-weighted rate of
// return (XIRR) over every cash flow the account has seen: capital put in
// (negative), assets brought in at cost or market value (negative, dated no
// earlier than account opening), realised P&L and charges as they occurred,
// and the account's current value as a terminal inflow dated today.
func (s *ValuationService) TotalPnlRate(clientID string) (float64, error) {
	accountOpen, err := s.clientRepo.GetAccountOpenDate(clientID)
	if err != nil {
		return 0, err
	}
	if accountOpen.IsZero() {
		return 0, apperrors.ErrMissingAccountOpenDate
	}

	flows := []CashFlow{}

	capital, err := s.ledgerRepo.ListCapitalEntries(clientID)
	if err != nil {
		return 0, err
	}
	for _, e := range capital {
		flows = append(flows, CashFlow{Date: e.Date, Amount: -e.Amount})
	}

	// Lots funded from outside the account are capital the ledger never
	// saw. Buy dates predating the account are clamped to the opening date
	// so no flow sits before the account existed.
	customerLots, err := s.holdingsRepo.ListMarketValueCashflows(clientID, model.OwnedByCustomer, model.FundSourceOutsideAccount)
	if err != nil {
		return 0, err
	}
	firmLots, err := s.holdingsRepo.ListBuyValueCashflows(clientID, model.OwnedByFirm, model.FundSourceOutsideAccount)
	if err != nil {
		return 0, err
	}
	for _, lot := range append(customerLots, firmLots...) {
		date := lot.BuyDate
		if date.Before(accountOpen) {
			date = accountOpen
		}
		flows = append(flows, CashFlow{Date: date, Amount: -lot.Amount})
	}

	pnlEntries, err := s.pnlRepo.ListFirmPnlEntries(clientID)
	if err != nil {
		return 0, err
	}
	for _, e := range pnlEntries {
		flows = append(flows, CashFlow{Date: e.Date, Amount: e.Amount})
	}
	charges, err := s.ledgerRepo.ListChargeEntries(clientID)
	if err != nil {
		return 0, err
	}
	for _, e := range charges {
		flows = append(flows, CashFlow{Date: e.Date, Amount: e.Amount})
	}

	terminal, err := s.terminalValue(clientID)
	if err != nil {
		return 0, err
	}
	flows = append(flows, CashFlow{Date: time.Now(), Amount: terminal})

	sort.SliceStable(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })

	return computeXIRR(flows), nil
}

// terminalValue is the hypothetical liquidation value of the account right
// now: unrealised P&L plus current invested cash (net of withdrawals) plus
// invested assets.
func (s *ValuationService) terminalValue(clientID string) (float64, error) {
	unrealised, err := s.holdingsRepo.SumUnrealisedPnl(clientID)
	if err != nil {
		return 0, err
	}

	invested, err := s.cashRepo.CurrentInvestedCash(clientID)
	if err != nil {
		return 0, err
	}
	investedAmount := 0.0
	if invested != nil {
		investedAmount = invested.Amount
	}

	withdrawn, err := s.cashRepo.GetWithdrawnCash(clientID)
	if err != nil {
		return 0, err
	}
	if withdrawn != nil {
		investedAmount -= *withdrawn
	}

	assets, err := s.InvestedAssets(clientID)
	if err != nil {
		return 0, err
	}

	return unrealised + investedAmount + assets, nil
}

// PortfolioValue returns the headline account value: net cash in (invested
// minus withdrawn) plus invested assets plus lifetime total P&L.
func (s *ValuationService) PortfolioValue(clientID string) (float64, error) {
	invested, err := s.cashRepo.CurrentInvestedCash(clientID)
	if err != nil {
		return 0, err
	}
	investedAmount := 0.0
	if invested != nil {
		investedAmount = invested.Amount
	}

	withdrawn, err := s.cashRepo.GetWithdrawnCash(clientID)
	if err != nil {
		return 0, err
	}
	withdrawnAmount := 0.0
	if withdrawn != nil {
		withdrawnAmount = *withdrawn
	}

	assets, err := s.InvestedAssets(clientID)
	if err != nil {
		return 0, err
	}

	totalPnl, err := s.TotalPnl(clientID)
	if err != nil {
		return 0, err
	}

	return (investedAmount - withdrawnAmount) + assets + totalPnl, nil
}

// TodayAlgoPnl returns the admin-supplied intraday algo P&L figure, or nil
// when none has been recorded today.
func (s *ValuationService) TodayAlgoPnl(clientID string) (*float64, error) {
	return s.cashRepo.GetTodayAlgoPnl(clientID)
}

// CurrentLedgerBalance returns the admin-supplied brokerage ledger balance,
// or nil when none has been recorded.
func (s *ValuationService) CurrentLedgerBalance(clientID string) (*float64, error) {
	return s.cashRepo.GetCurrentLedgerBalance(clientID)
}

// ClientExists verifies a client ID against the CRM table. A missing
// record surfaces as ErrClientNotFound.
func (s *ValuationService) ClientExists(clientID string) error {
	_, err := s.clientRepo.GetClient(clientID)
	return err
}
