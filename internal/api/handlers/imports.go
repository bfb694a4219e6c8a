package handlers

import (
	"net/http"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/request"
	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
	"github.com/ifinlabs/wealth-reporting-backend/internal/validation"
)

// ImportHandler handles the admin data-import HTTP requests. Each endpoint
// accepts the parallel-array body the CSV ingestion layer produces,
// validates it, and hands typed rows to the owning service.
type ImportHandler struct {
	importService   *service.ImportService
	holdingsService *service.HoldingsService
	ledgerService   *service.LedgerService
	pnlService      *service.PnlService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	importService *service.ImportService,
	holdingsService *service.HoldingsService,
	ledgerService *service.LedgerService,
	pnlService *service.PnlService,
) *ImportHandler {
	return &ImportHandler{
		importService:   importService,
		holdingsService: holdingsService,
		ledgerService:   ledgerService,
		pnlService:      pnlService,
	}
}

// ImportResponse represents the outcome of an import batch.
type ImportResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

// Scrips handles POST /api/import/scrips.
func (h *ImportHandler) Scrips(w http.ResponseWriter, r *http.Request) {
	var req request.ScripImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateScripImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	scrips := make([]model.Scrip, len(req.Scripcodes))
	for i := range req.Scripcodes {
		scrips[i] = model.Scrip{
			Name:         req.Names[i],
			Scripcode:    req.Scripcodes[i],
			Exchange:     req.Exchanges[i],
			ExchangeType: req.ExchangeTypes[i],
			QuoteFeed:    model.QuoteFeed(req.QuoteFeeds[i]),
		}
	}

	processed, err := h.importService.ImportScrips(scrips)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to import scrips", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: "scrips imported", Processed: processed})
}

// Clients handles POST /api/import/clients.
func (h *ImportHandler) Clients(w http.ResponseWriter, r *http.Request) {
	var req request.ClientImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateClientImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	clients := make([]model.Client, len(req.BrokerIDs))
	for i := range req.BrokerIDs {
		clients[i] = model.Client{
			BrokerID:      req.BrokerIDs[i],
			ClientName:    req.ClientNames[i],
			PhoneNo:       req.PhoneNos[i],
			Email:         req.Emails[i],
			Address:       req.Addresses[i],
			AccountType:   req.AccountTypes[i],
			AccountStatus: req.AccountStatuses[i],
		}
		if req.AccountOpenDates[i] != "" {
			// Already validated to parse.
			clients[i].AccountOpenDate, _ = time.Parse("2006-01-02", req.AccountOpenDates[i])
		}
	}

	processed, err := h.importService.ImportClients(clients)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to import clients", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: "clients imported", Processed: processed})
}

// HoldingsTransactions handles POST /api/import/holdings-trx.
func (h *ImportHandler) HoldingsTransactions(w http.ResponseWriter, r *http.Request) {
	var req request.HoldingsTrxImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateHoldingsTrxImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	trxs := make([]model.HoldingsTrx, len(req.BrokerIDs))
	for i := range req.BrokerIDs {
		date, _ := time.Parse("2006-01-02", req.TrxDates[i])
		trxs[i] = model.HoldingsTrx{
			BrokerID:   req.BrokerIDs[i],
			Scripcode:  req.Scripcodes[i],
			QuoteFeed:  model.QuoteFeed(req.QuoteFeeds[i]),
			TrxType:    model.TrxType(req.TrxTypes[i]),
			TrxPrice:   req.TrxPrices[i],
			Quantity:   req.Quantities[i],
			TrxDate:    date,
			OwnedBy:    model.OwnedBy(req.OwnedBy[i]),
			FundSource: model.FundSource(req.FundSources[i]),
		}
	}

	if err := h.holdingsService.RecordTransactions(trxs); err != nil {
		response.RespondError(w, errorStatus(err), "failed to process holdings transactions", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: "holdings transactions processed", Processed: len(trxs)})
}

// Ledger handles POST /api/import/ledger.
func (h *ImportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	var req request.LedgerImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateLedgerImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	entries := make([]model.LedgerInput, len(req.BrokerIDs))
	for i := range req.BrokerIDs {
		date, _ := time.Parse("2006-01-02", req.Dates[i])
		entries[i] = model.LedgerInput{
			BrokerID:  req.BrokerIDs[i],
			Amount:    req.Amounts[i],
			EntryType: model.LedgerEntryType(req.EntryTypes[i]),
			Date:      date,
		}
	}

	processed, err := h.ledgerService.ProcessEntries(entries)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to process ledger entries", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: "ledger entries processed", Processed: processed})
}

// RealisedPnl handles POST /api/import/realised-pnl.
func (h *ImportHandler) RealisedPnl(w http.ResponseWriter, r *http.Request) {
	var req request.RealisedPnlImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateRealisedPnlImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	entries := make([]model.RealisedPnlInput, len(req.BrokerIDs))
	for i := range req.BrokerIDs {
		date, _ := time.Parse("2006-01-02", req.Dates[i])
		entries[i] = model.RealisedPnlInput{
			BrokerID:      req.BrokerIDs[i],
			Pnl:           req.Pnls[i],
			EntryType:     req.EntryTypes[i],
			ContributedBy: model.PnlContributor(req.ContributedBy[i]),
			Date:          date,
		}
	}

	processed, err := h.pnlService.ProcessEntries(entries)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to process realised pnl entries", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: "realised pnl entries processed", Processed: processed})
}

// CurrentLedgerBalance handles POST /api/import/ledger-balance.
func (h *ImportHandler) CurrentLedgerBalance(w http.ResponseWriter, r *http.Request) {
	h.upsertBalances(w, r, h.importService.UpsertCurrentLedgerBalance, "ledger balances updated")
}

// TodayAlgoPnl handles POST /api/import/today-algo-pnl.
func (h *ImportHandler) TodayAlgoPnl(w http.ResponseWriter, r *http.Request) {
	h.upsertBalances(w, r, h.importService.UpsertTodayAlgoPnl, "algo pnl figures updated")
}

func (h *ImportHandler) upsertBalances(w http.ResponseWriter, r *http.Request, upsert func([]string, []float64) (int, error), message string) {
	var req request.BalanceImportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateBalanceImport(req); err != nil {
		response.RespondError(w, errorStatus(err), "validation failed", err.Error())
		return
	}

	processed, err := upsert(req.BrokerIDs, req.Amounts)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to update balances", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Success: true, Message: message, Processed: processed})
}
