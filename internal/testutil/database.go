package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- CRM table
		CREATE TABLE IF NOT EXISTS crm (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			broker_id VARCHAR(50) NOT NULL UNIQUE,
			client_name VARCHAR(100) NOT NULL,
			phone_no VARCHAR(15),
			email VARCHAR(255),
			address TEXT,
			account_open_date DATE,
			account_type VARCHAR(50),
			account_status VARCHAR(20),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Scrip reference data table
		CREATE TABLE IF NOT EXISTS scrip (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			scripcode VARCHAR(50) NOT NULL,
			exchange VARCHAR(1) NOT NULL,
			exchange_type VARCHAR(1) NOT NULL,
			quote_feed VARCHAR(10) NOT NULL,
			cmp FLOAT NOT NULL DEFAULT 0,
			CONSTRAINT unique_scripcode_feed UNIQUE (scripcode, quote_feed)
		);

		-- Holdings lot table
		CREATE TABLE IF NOT EXISTS holdings_lot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL,
			scrip_id VARCHAR(36) NOT NULL,
			buy_quantity FLOAT NOT NULL,
			buy_price FLOAT NOT NULL,
			buy_value FLOAT NOT NULL,
			buy_date DATE NOT NULL,
			sell_quantity FLOAT NOT NULL DEFAULT 0,
			sell_price FLOAT NOT NULL DEFAULT 0,
			sell_value FLOAT NOT NULL DEFAULT 0,
			sell_date DATE,
			open_quantity FLOAT NOT NULL,
			unrealised_pnl FLOAT NOT NULL DEFAULT 0,
			market_value FLOAT NOT NULL DEFAULT 0,
			owned_by VARCHAR(10) NOT NULL,
			fund_source VARCHAR(20) NOT NULL,
			from_date DATE NOT NULL,
			to_date DATE NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE,
			FOREIGN KEY(scrip_id) REFERENCES scrip(id)
		);

		-- Cash ledger table (append only)
		CREATE TABLE IF NOT EXISTS ledger (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL,
			amount FLOAT NOT NULL,
			entry_type VARCHAR(30) NOT NULL,
			from_date DATE NOT NULL,
			to_date DATE NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Invested cash table (temporally versioned)
		CREATE TABLE IF NOT EXISTS invested_cash (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL,
			amount FLOAT NOT NULL,
			from_date DATE NOT NULL,
			to_date DATE NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Withdrawn cash table (one row per client)
		CREATE TABLE IF NOT EXISTS withdrawn_cash (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL UNIQUE,
			amount FLOAT NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Realised P&L table
		CREATE TABLE IF NOT EXISTS realised_pnl (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL,
			pnl FLOAT NOT NULL,
			entry_type VARCHAR(30) NOT NULL,
			contributed_by VARCHAR(10) NOT NULL,
			from_date DATE NOT NULL,
			to_date DATE NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Current ledger balance table (admin override, one row per client)
		CREATE TABLE IF NOT EXISTS current_ledger_balance (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL UNIQUE,
			amount FLOAT NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Today's algo P&L table (admin override, one row per client)
		CREATE TABLE IF NOT EXISTS today_algo_pnl (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			client_id VARCHAR(36) NOT NULL UNIQUE,
			amount FLOAT NOT NULL,
			FOREIGN KEY(client_id) REFERENCES crm(id) ON DELETE CASCADE
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS ix_holdings_lot_client_scrip ON holdings_lot(client_id, scrip_id);
		CREATE INDEX IF NOT EXISTS ix_holdings_lot_buy_date ON holdings_lot(buy_date);
		CREATE INDEX IF NOT EXISTS ix_ledger_client_id ON ledger(client_id);
		CREATE INDEX IF NOT EXISTS ix_ledger_entry_type ON ledger(entry_type);
		CREATE INDEX IF NOT EXISTS ix_invested_cash_client_to_date ON invested_cash(client_id, to_date);
		CREATE INDEX IF NOT EXISTS ix_realised_pnl_client_id ON realised_pnl(client_id);
		CREATE INDEX IF NOT EXISTS ix_realised_pnl_from_date ON realised_pnl(from_date);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"today_algo_pnl",
		"current_ledger_balance",
		"realised_pnl",
		"withdrawn_cash",
		"invested_cash",
		"ledger",
		"holdings_lot",
		"scrip",
		"crm",
	}

	for _, table := range tables {
		//nolint:gosec // G202: Table names are from hardcoded slice, no SQL injection risk
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "ledger", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
