package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// ClientBuilder provides a fluent interface for creating test CRM records.
//
// Example usage:
//
//	// Simple creation with defaults
//	client := testutil.NewClient().Build(t, db)
//
//	// Customized client
//	client := testutil.NewClient().
//	    WithBrokerID("BRK001").
//	    WithAccountOpenDate(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type ClientBuilder struct {
	ID              string
	BrokerID        string
	ClientName      string
	AccountOpenDate time.Time
}

// NewClient creates a ClientBuilder with sensible defaults.
func NewClient() *ClientBuilder {
	return &ClientBuilder{
		ID:              MakeID(),
		BrokerID:        MakeBrokerID(),
		ClientName:      "Test Client " + randomAlphanumeric(6),
		AccountOpenDate: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *ClientBuilder) WithID(id string) *ClientBuilder {
	b.ID = id
	return b
}

// WithBrokerID sets a custom broker ID.
func (b *ClientBuilder) WithBrokerID(brokerID string) *ClientBuilder {
	b.BrokerID = brokerID
	return b
}

// WithName sets a custom client name.
func (b *ClientBuilder) WithName(name string) *ClientBuilder {
	b.ClientName = name
	return b
}

// WithAccountOpenDate sets a custom account-open date.
func (b *ClientBuilder) WithAccountOpenDate(date time.Time) *ClientBuilder {
	b.AccountOpenDate = date
	return b
}

// WithoutAccountOpenDate clears the account-open date.
func (b *ClientBuilder) WithoutAccountOpenDate() *ClientBuilder {
	b.AccountOpenDate = time.Time{}
	return b
}

// Build inserts the CRM record and returns the model.
func (b *ClientBuilder) Build(t *testing.T, db *sql.DB) model.Client {
	t.Helper()

	var openDate interface{}
	if !b.AccountOpenDate.IsZero() {
		openDate = repository.FormatDate(b.AccountOpenDate)
	}

	_, err := db.Exec(`
		INSERT INTO crm (id, broker_id, client_name, account_open_date)
		VALUES (?, ?, ?, ?)
	`, b.ID, b.BrokerID, b.ClientName, openDate)
	if err != nil {
		t.Fatalf("Failed to insert test client: %v", err)
	}

	return model.Client{
		ID:              b.ID,
		BrokerID:        b.BrokerID,
		ClientName:      b.ClientName,
		AccountOpenDate: b.AccountOpenDate,
	}
}

// ScripBuilder provides a fluent interface for creating test scrips.
type ScripBuilder struct {
	ID        string
	Name      string
	Scripcode string
	Exchange  string
	ExchType  string
	QuoteFeed model.QuoteFeed
	CMP       float64
}

// NewScrip creates a ScripBuilder with sensible defaults (an NSE equity on
// the brokerage feed).
func NewScrip() *ScripBuilder {
	return &ScripBuilder{
		ID:        MakeID(),
		Name:      "Test Scrip " + randomAlphanumeric(6),
		Scripcode: MakeScripcode(),
		Exchange:  "N",
		ExchType:  "C",
		QuoteFeed: model.FeedBroker,
		CMP:       100,
	}
}

// WithID sets a custom ID.
func (b *ScripBuilder) WithID(id string) *ScripBuilder {
	b.ID = id
	return b
}

// WithScripcode sets a custom scripcode.
func (b *ScripBuilder) WithScripcode(code string) *ScripBuilder {
	b.Scripcode = code
	return b
}

// WithQuoteFeed sets the quote feed.
func (b *ScripBuilder) WithQuoteFeed(feed model.QuoteFeed) *ScripBuilder {
	b.QuoteFeed = feed
	return b
}

// WithCMP sets the current market price.
func (b *ScripBuilder) WithCMP(cmp float64) *ScripBuilder {
	b.CMP = cmp
	return b
}

// Build inserts the scrip and returns the model.
func (b *ScripBuilder) Build(t *testing.T, db *sql.DB) model.Scrip {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO scrip (id, name, scripcode, exchange, exchange_type, quote_feed, cmp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Scripcode, b.Exchange, b.ExchType, string(b.QuoteFeed), b.CMP)
	if err != nil {
		t.Fatalf("Failed to insert test scrip: %v", err)
	}

	return model.Scrip{
		ID:           b.ID,
		Name:         b.Name,
		Scripcode:    b.Scripcode,
		Exchange:     b.Exchange,
		ExchangeType: b.ExchType,
		QuoteFeed:    b.QuoteFeed,
		CMP:          b.CMP,
	}
}

// LotBuilder provides a fluent interface for creating test holdings lots.
// The default lot is fully open.
type LotBuilder struct {
	ID            string
	ClientID      string
	ScripID       string
	BuyQuantity   float64
	BuyPrice      float64
	BuyDate       time.Time
	SellQuantity  float64
	SellPrice     float64
	SellValue     float64
	OpenQuantity  float64
	UnrealisedPnl float64
	MarketValue   float64
	OwnedBy       model.OwnedBy
	FundSource    model.FundSource
}

// NewLot creates a LotBuilder for the given client and scrip with sensible
// defaults: 100 units bought at 10, fully open, firm owned, funded inside
// the account.
func NewLot(clientID, scripID string) *LotBuilder {
	return &LotBuilder{
		ID:           MakeID(),
		ClientID:     clientID,
		ScripID:      scripID,
		BuyQuantity:  100,
		BuyPrice:     10,
		BuyDate:      time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		OpenQuantity: 100,
		OwnedBy:      model.OwnedByFirm,
		FundSource:   model.FundSourceInsideAccount,
	}
}

// WithQuantity sets the buy quantity and open quantity together.
func (b *LotBuilder) WithQuantity(qty float64) *LotBuilder {
	b.BuyQuantity = qty
	b.OpenQuantity = qty
	return b
}

// WithBuyPrice sets the buy price.
func (b *LotBuilder) WithBuyPrice(price float64) *LotBuilder {
	b.BuyPrice = price
	return b
}

// WithBuyDate sets the buy date.
func (b *LotBuilder) WithBuyDate(date time.Time) *LotBuilder {
	b.BuyDate = date
	return b
}

// WithOpenQuantity overrides the open quantity (partially sold lot).
func (b *LotBuilder) WithOpenQuantity(qty float64) *LotBuilder {
	b.OpenQuantity = qty
	return b
}

// WithValuation sets the refreshed unrealised P&L and market value.
func (b *LotBuilder) WithValuation(unrealisedPnl, marketValue float64) *LotBuilder {
	b.UnrealisedPnl = unrealisedPnl
	b.MarketValue = marketValue
	return b
}

// OwnedByCustomer marks the lot as customer owned.
func (b *LotBuilder) OwnedByCustomer() *LotBuilder {
	b.OwnedBy = model.OwnedByCustomer
	return b
}

// FromOutsideAccount marks the lot as funded from outside the account.
func (b *LotBuilder) FromOutsideAccount() *LotBuilder {
	b.FundSource = model.FundSourceOutsideAccount
	return b
}

// Build inserts the lot and returns the model.
func (b *LotBuilder) Build(t *testing.T, db *sql.DB) model.HoldingsLot {
	t.Helper()

	buyValue := b.OpenQuantity * b.BuyPrice

	_, err := db.Exec(`
		INSERT INTO holdings_lot (
			id, client_id, scrip_id,
			buy_quantity, buy_price, buy_value, buy_date,
			sell_quantity, sell_price, sell_value,
			open_quantity, unrealised_pnl, market_value,
			owned_by, fund_source, from_date, to_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.ClientID, b.ScripID,
		b.BuyQuantity, b.BuyPrice, buyValue, repository.FormatDate(b.BuyDate),
		b.SellQuantity, b.SellPrice, b.SellValue,
		b.OpenQuantity, b.UnrealisedPnl, b.MarketValue,
		string(b.OwnedBy), string(b.FundSource),
		repository.FormatDate(b.BuyDate), repository.FormatDate(model.MaxDate),
	)
	if err != nil {
		t.Fatalf("Failed to insert test lot: %v", err)
	}

	return model.HoldingsLot{
		ID:            b.ID,
		ClientID:      b.ClientID,
		ScripID:       b.ScripID,
		BuyQuantity:   b.BuyQuantity,
		BuyPrice:      b.BuyPrice,
		BuyValue:      buyValue,
		BuyDate:       b.BuyDate,
		SellQuantity:  b.SellQuantity,
		SellPrice:     b.SellPrice,
		SellValue:     b.SellValue,
		OpenQuantity:  b.OpenQuantity,
		UnrealisedPnl: b.UnrealisedPnl,
		MarketValue:   b.MarketValue,
		OwnedBy:       b.OwnedBy,
		FundSource:    b.FundSource,
	}
}

// LedgerEntryBuilder provides a fluent interface for creating test ledger
// entries.
type LedgerEntryBuilder struct {
	ID        string
	ClientID  string
	Amount    float64
	EntryType model.LedgerEntryType
	Date      time.Time
}

// NewLedgerEntry creates a LedgerEntryBuilder with sensible defaults (an
// investment of 10,000).
func NewLedgerEntry(clientID string) *LedgerEntryBuilder {
	return &LedgerEntryBuilder{
		ID:        MakeID(),
		ClientID:  clientID,
		Amount:    10000,
		EntryType: model.LedgerInvestment,
		Date:      time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

// WithAmount sets the entry amount.
func (b *LedgerEntryBuilder) WithAmount(amount float64) *LedgerEntryBuilder {
	b.Amount = amount
	return b
}

// WithEntryType sets the entry kind.
func (b *LedgerEntryBuilder) WithEntryType(entryType model.LedgerEntryType) *LedgerEntryBuilder {
	b.EntryType = entryType
	return b
}

// WithDate sets the entry date.
func (b *LedgerEntryBuilder) WithDate(date time.Time) *LedgerEntryBuilder {
	b.Date = date
	return b
}

// Build inserts the ledger entry and returns the model.
func (b *LedgerEntryBuilder) Build(t *testing.T, db *sql.DB) model.LedgerEntry {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO ledger (id, client_id, amount, entry_type, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.ClientID, b.Amount, string(b.EntryType),
		repository.FormatDate(b.Date), repository.FormatDate(model.MaxDate))
	if err != nil {
		t.Fatalf("Failed to insert test ledger entry: %v", err)
	}

	return model.LedgerEntry{
		ID:        b.ID,
		ClientID:  b.ClientID,
		Amount:    b.Amount,
		EntryType: b.EntryType,
		FromDate:  b.Date,
		ToDate:    model.MaxDate,
	}
}

// InvestedCashBuilder provides a fluent interface for creating test
// invested-cash rows. The default row is open ended.
type InvestedCashBuilder struct {
	ID       string
	ClientID string
	Amount   float64
	FromDate time.Time
	ToDate   time.Time
}

// NewInvestedCash creates an InvestedCashBuilder with sensible defaults.
func NewInvestedCash(clientID string) *InvestedCashBuilder {
	return &InvestedCashBuilder{
		ID:       MakeID(),
		ClientID: clientID,
		Amount:   10000,
		FromDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		ToDate:   model.MaxDate,
	}
}

// WithAmount sets the invested amount.
func (b *InvestedCashBuilder) WithAmount(amount float64) *InvestedCashBuilder {
	b.Amount = amount
	return b
}

// ClosedAt closes the row's validity window at the given date.
func (b *InvestedCashBuilder) ClosedAt(date time.Time) *InvestedCashBuilder {
	b.ToDate = date
	return b
}

// Build inserts the invested-cash row and returns the model.
func (b *InvestedCashBuilder) Build(t *testing.T, db *sql.DB) model.InvestedCash {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO invested_cash (id, client_id, amount, from_date, to_date)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.ClientID, b.Amount, repository.FormatDate(b.FromDate), repository.FormatDate(b.ToDate))
	if err != nil {
		t.Fatalf("Failed to insert test invested cash: %v", err)
	}

	return model.InvestedCash{
		ID:       b.ID,
		ClientID: b.ClientID,
		Amount:   b.Amount,
		FromDate: b.FromDate,
		ToDate:   b.ToDate,
	}
}

// RealisedPnlBuilder provides a fluent interface for creating test realised
// P&L rows.
type RealisedPnlBuilder struct {
	ID            string
	ClientID      string
	Pnl           float64
	EntryType     string
	ContributedBy model.PnlContributor
	Date          time.Time
}

// NewRealisedPnl creates a RealisedPnlBuilder with sensible defaults (a
// firm-contributed gain of 500).
func NewRealisedPnl(clientID string) *RealisedPnlBuilder {
	return &RealisedPnlBuilder{
		ID:            MakeID(),
		ClientID:      clientID,
		Pnl:           500,
		EntryType:     "EQUITY",
		ContributedBy: model.ContributedByFirm,
		Date:          time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithPnl sets the P&L amount.
func (b *RealisedPnlBuilder) WithPnl(pnl float64) *RealisedPnlBuilder {
	b.Pnl = pnl
	return b
}

// WithDate sets the event date.
func (b *RealisedPnlBuilder) WithDate(date time.Time) *RealisedPnlBuilder {
	b.Date = date
	return b
}

// ContributedByCustomer marks the row as customer contributed.
func (b *RealisedPnlBuilder) ContributedByCustomer() *RealisedPnlBuilder {
	b.ContributedBy = model.ContributedByCustomer
	return b
}

// Build inserts the realised P&L row and returns the model.
func (b *RealisedPnlBuilder) Build(t *testing.T, db *sql.DB) model.RealisedPnl {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO realised_pnl (id, client_id, pnl, entry_type, contributed_by, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.ClientID, b.Pnl, b.EntryType, string(b.ContributedBy),
		repository.FormatDate(b.Date), repository.FormatDate(model.MaxDate))
	if err != nil {
		t.Fatalf("Failed to insert test realised pnl: %v", err)
	}

	return model.RealisedPnl{
		ID:            b.ID,
		ClientID:      b.ClientID,
		Pnl:           b.Pnl,
		EntryType:     b.EntryType,
		ContributedBy: b.ContributedBy,
		FromDate:      b.Date,
		ToDate:        model.MaxDate,
	}
}
