package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api"
	"github.com/ifinlabs/wealth-reporting-backend/internal/config"
	"github.com/ifinlabs/wealth-reporting-backend/internal/database"
	"github.com/ifinlabs/wealth-reporting-backend/internal/marketdata"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	clientRepo := repository.NewClientRepository(db)
	scripRepo := repository.NewScripRepository(db)
	holdingsRepo := repository.NewHoldingsRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	cashRepo := repository.NewCashRepository(db)
	pnlRepo := repository.NewPnlRepository(db)

	marketClient := marketdata.NewFinanceClient(cfg.MarketData.BrokerFeedURL, cfg.MarketData.MutualFundFeedURL)

	// Create services
	systemService := service.NewSystemService(db)
	clientService := service.NewClientService(clientRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, cashRepo, clientRepo)
	pnlService := service.NewPnlService(pnlRepo, clientRepo, ledgerService)
	holdingsService := service.NewHoldingsService(holdingsRepo, clientRepo, scripRepo, ledgerService)
	valuationService := service.NewValuationService(holdingsRepo, ledgerRepo, cashRepo, pnlRepo, clientRepo)
	refreshService := service.NewRefreshService(scripRepo, holdingsRepo, marketClient)
	importService := service.NewImportService(scripRepo, clientRepo, cashRepo)

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Client:    clientService,
		Import:    importService,
		Holdings:  holdingsService,
		Ledger:    ledgerService,
		Pnl:       pnlService,
		Valuation: valuationService,
		Refresh:   refreshService,
	}, cfg)

	// Schedule the market-data refresh jobs
	scheduler := cron.New()
	if spec := cfg.Scheduler.QuoteRefreshSpec; spec != "" {
		_, err := scheduler.AddFunc(spec, func() {
			if updated, err := refreshService.UpdateQuotes(context.Background()); err != nil {
				log.Printf("Scheduled quote refresh failed: %v", err)
			} else {
				log.Printf("Scheduled quote refresh updated %d scrips", updated)
			}
		})
		if err != nil {
			log.Fatalf("Invalid quote refresh schedule %q: %v", spec, err)
		}
	}
	if spec := cfg.Scheduler.PnlRefreshSpec; spec != "" {
		_, err := scheduler.AddFunc(spec, func() {
			if updated, err := refreshService.RefreshUnrealisedPnl(context.Background()); err != nil {
				log.Printf("Scheduled pnl refresh failed: %v", err)
			} else {
				log.Printf("Scheduled pnl refresh updated %d lots", updated)
			}
		})
		if err != nil {
			log.Fatalf("Invalid pnl refresh schedule %q: %v", spec, err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
