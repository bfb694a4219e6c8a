package model

import "time"

// MaxDate is the sentinel "open ended" validity date. A row whose to_date
// equals MaxDate is the current version of that row.
var MaxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// TrxType classifies a holdings transaction row.
type TrxType string

const (
	TrxBuy  TrxType = "BUY"
	TrxSell TrxType = "SELL"
)

// OwnedBy classifies who owns a holdings lot: the managing firm or the
// customer themselves.
type OwnedBy string

const (
	OwnedByFirm     OwnedBy = "FIRM"
	OwnedByCustomer OwnedBy = "CUSTOMER"
)

// FundSource classifies where the money that funded a lot came from.
type FundSource string

const (
	FundSourceInsideAccount  FundSource = "INSIDE_ACCOUNT"
	FundSourceOutsideAccount FundSource = "OUTSIDE_ACCOUNT"
)

// QuoteFeed identifies which market-data feed serves a scrip's prices.
type QuoteFeed string

const (
	// FeedBroker covers exchange-traded scrips quoted through the brokerage
	// market feed.
	FeedBroker QuoteFeed = "BROKER"
	// FeedMutualFund covers mutual fund schemes quoted by NAV lookup.
	FeedMutualFund QuoteFeed = "MFAPI"
)

// LedgerEntryType classifies a cash ledger entry. The first three kinds are
// capital movements; CHARGES is a cost and is excluded from the capital
// balance but included in P&L.
type LedgerEntryType string

const (
	LedgerInvestment             LedgerEntryType = "INVESTMENT"
	LedgerCharges                LedgerEntryType = "CHARGES"
	LedgerInterDpStockSold       LedgerEntryType = "INTER_DP_STOCK_SOLD"
	LedgerCustomerContributedPnl LedgerEntryType = "CUSTOMER_CONTRIBUTED_PNL"
)

// CapitalEntryTypes are the ledger entry kinds that count toward the
// client's capital balance (invested/withdrawn cash derivation).
var CapitalEntryTypes = []LedgerEntryType{
	LedgerInvestment,
	LedgerInterDpStockSold,
	LedgerCustomerContributedPnl,
}

// PnlContributor classifies who funded a realised P&L event. Only
// firm-contributed rows count toward reported realised P&L; customer
// contributions are rerouted into the cash ledger.
type PnlContributor string

const (
	ContributedByFirm     PnlContributor = "FIRM"
	ContributedByCustomer PnlContributor = "CUSTOMER"
)
