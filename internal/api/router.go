package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/handlers"
	custommiddleware "github.com/ifinlabs/wealth-reporting-backend/internal/api/middleware"
	"github.com/ifinlabs/wealth-reporting-backend/internal/config"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System    *service.SystemService
	Client    *service.ClientService
	Import    *service.ImportService
	Holdings  *service.HoldingsService
	Ledger    *service.LedgerService
	Pnl       *service.PnlService
	Valuation *service.ValuationService
	Refresh   *service.RefreshService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		clientHandler := handlers.NewClientHandler(services.Client)
		r.Get("/client", clientHandler.List)

		// Import namespace: admin-only, guarded by the API key middleware
		r.Route("/import", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware)

			importHandler := handlers.NewImportHandler(services.Import, services.Holdings, services.Ledger, services.Pnl)
			r.Post("/scrips", importHandler.Scrips)
			r.Post("/clients", importHandler.Clients)
			r.Post("/holdings-trx", importHandler.HoldingsTransactions)
			r.Post("/ledger", importHandler.Ledger)
			r.Post("/realised-pnl", importHandler.RealisedPnl)
			r.Post("/ledger-balance", importHandler.CurrentLedgerBalance)
			r.Post("/today-algo-pnl", importHandler.TodayAlgoPnl)
		})

		// Refresh namespace: admin-only triggers for the scheduled jobs
		r.Route("/refresh", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware)

			refreshHandler := handlers.NewRefreshHandler(services.Refresh)
			r.Post("/quotes", refreshHandler.Quotes)
			r.Post("/unrealised-pnl", refreshHandler.UnrealisedPnl)
		})

		// Report namespace: read-only per-client metrics
		r.Route("/report/{clientId}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateClientIDMiddleware)

			reportHandler := handlers.NewReportHandler(services.Valuation)
			r.Get("/invested-cash", reportHandler.InvestedCash)
			r.Get("/withdrawn-cash", reportHandler.WithdrawnCash)
			r.Get("/deployed-cash", reportHandler.DeployedCash)
			r.Get("/invested-assets", reportHandler.InvestedAssets)
			r.Get("/unrealised-pnl", reportHandler.UnrealisedPnl)
			r.Get("/realised-pnl", reportHandler.RealisedPnlSeries)
			r.Get("/realised-pnl/total", reportHandler.TotalRealisedPnl)
			r.Get("/total-pnl", reportHandler.TotalPnl)
			r.Get("/total-pnl-rate", reportHandler.TotalPnlRate)
			r.Get("/portfolio-value", reportHandler.PortfolioValue)
			r.Get("/today-algo-pnl", reportHandler.TodayAlgoPnl)
			r.Get("/ledger-balance", reportHandler.CurrentLedgerBalance)
		})
	})

	return r
}
