package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

// ReportHandler serves the per-client report metrics. Every endpoint is
// read-only and scoped by the clientId URL parameter.
type ReportHandler struct {
	valuationService *service.ValuationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(valuationService *service.ValuationService) *ReportHandler {
	return &ReportHandler{
		valuationService: valuationService,
	}
}

// AmountResponse wraps a single monetary metric. Amount is null when the
// client has no underlying record for it yet.
type AmountResponse struct {
	Amount *float64 `json:"amount"`
}

// RealisedPnlSeriesResponse wraps the per-day realised P&L series.
type RealisedPnlSeriesResponse struct {
	Series []model.DailyPnl `json:"series"`
}

// InvestedCash handles GET /api/report/{clientId}/invested-cash.
func (h *ReportHandler) InvestedCash(w http.ResponseWriter, r *http.Request) {
	h.respondAmount(w, r, h.valuationService.InvestedCash)
}

// WithdrawnCash handles GET /api/report/{clientId}/withdrawn-cash.
func (h *ReportHandler) WithdrawnCash(w http.ResponseWriter, r *http.Request) {
	h.respondAmount(w, r, h.valuationService.WithdrawnCash)
}

// DeployedCash handles GET /api/report/{clientId}/deployed-cash.
func (h *ReportHandler) DeployedCash(w http.ResponseWriter, r *http.Request) {
	h.respondAmount(w, r, h.valuationService.DeployedCash)
}

// TodayAlgoPnl handles GET /api/report/{clientId}/today-algo-pnl.
func (h *ReportHandler) TodayAlgoPnl(w http.ResponseWriter, r *http.Request) {
	h.respondAmount(w, r, h.valuationService.TodayAlgoPnl)
}

// CurrentLedgerBalance handles GET /api/report/{clientId}/ledger-balance.
func (h *ReportHandler) CurrentLedgerBalance(w http.ResponseWriter, r *http.Request) {
	h.respondAmount(w, r, h.valuationService.CurrentLedgerBalance)
}

// InvestedAssets handles GET /api/report/{clientId}/invested-assets.
func (h *ReportHandler) InvestedAssets(w http.ResponseWriter, r *http.Request) {
	h.respondValue(w, r, h.valuationService.InvestedAssets)
}

// UnrealisedPnl handles GET /api/report/{clientId}/unrealised-pnl.
func (h *ReportHandler) UnrealisedPnl(w http.ResponseWriter, r *http.Request) {
	h.respondValue(w, r, h.valuationService.UnrealisedPnl)
}

// TotalPnl handles GET /api/report/{clientId}/total-pnl.
func (h *ReportHandler) TotalPnl(w http.ResponseWriter, r *http.Request) {
	h.respondValue(w, r, h.valuationService.TotalPnl)
}

// TotalPnlRate handles GET /api/report/{clientId}/total-pnl-rate.
func (h *ReportHandler) TotalPnlRate(w http.ResponseWriter, r *http.Request) {
	h.respondValue(w, r, h.valuationService.TotalPnlRate)
}

// PortfolioValue handles GET /api/report/{clientId}/portfolio-value.
func (h *ReportHandler) PortfolioValue(w http.ResponseWriter, r *http.Request) {
	h.respondValue(w, r, h.valuationService.PortfolioValue)
}

// RealisedPnlSeries handles GET /api/report/{clientId}/realised-pnl.
// Requires from and to query parameters in YYYY-MM-DD format.
func (h *ReportHandler) RealisedPnlSeries(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	series, err := h.valuationService.RealisedPnlSeries(clientID, from, to)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to retrieve realised pnl series", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, RealisedPnlSeriesResponse{Series: series})
}

// TotalRealisedPnl handles GET /api/report/{clientId}/realised-pnl/total.
// Requires from and to query parameters in YYYY-MM-DD format.
func (h *ReportHandler) TotalRealisedPnl(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	total, err := h.valuationService.TotalRealisedPnl(clientID, from, to)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to retrieve total realised pnl", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, AmountResponse{Amount: &total})
}

func (h *ReportHandler) respondAmount(w http.ResponseWriter, r *http.Request, metric func(string) (*float64, error)) {
	clientID := chi.URLParam(r, "clientId")
	amount, err := metric(clientID)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to retrieve report data", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, AmountResponse{Amount: amount})
}

func (h *ReportHandler) respondValue(w http.ResponseWriter, r *http.Request, metric func(string) (float64, error)) {
	clientID := chi.URLParam(r, "clientId")
	value, err := metric(clientID)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to retrieve report data", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, AmountResponse{Amount: &value})
}

// parseDateRange reads the from/to query parameters. On failure it writes
// the error response and returns ok=false.
func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
