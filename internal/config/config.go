package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Scheduler  SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds the market-data vendor endpoints.
type MarketDataConfig struct {
	BrokerFeedURL     string
	MutualFundFeedURL string
}

// SchedulerConfig holds cron expressions for the periodic refresh jobs.
// Empty spec disables the job.
type SchedulerConfig struct {
	QuoteRefreshSpec string
	PnlRefreshSpec   string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wealth_reporting.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			BrokerFeedURL:     getEnv("BROKER_FEED_URL", ""),
			MutualFundFeedURL: getEnv("MF_FEED_URL", ""),
		},
		Scheduler: SchedulerConfig{
			// Refresh quotes and unrealised P&L once per trading day by default.
			QuoteRefreshSpec: getEnv("QUOTE_REFRESH_CRON", "30 15 * * MON-FRI"),
			PnlRefreshSpec:   getEnv("PNL_REFRESH_CRON", "45 15 * * MON-FRI"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
