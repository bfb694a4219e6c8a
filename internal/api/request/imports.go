// Package request defines the JSON request bodies accepted by the API.
// Import bodies carry parallel arrays, mirroring the column-per-array shape
// the CSV ingestion layer produces.
package request

// HoldingsTrxImportRequest is the body of a holdings transaction import.
type HoldingsTrxImportRequest struct {
	BrokerIDs   []string  `json:"brokerIds"`
	Scripcodes  []string  `json:"scripcodes"`
	QuoteFeeds  []string  `json:"quoteFeeds"`
	TrxTypes    []string  `json:"trxTypes"`
	TrxPrices   []float64 `json:"trxPrices"`
	Quantities  []float64 `json:"quantities"`
	TrxDates    []string  `json:"trxDates"`
	OwnedBy     []string  `json:"ownedBy"`
	FundSources []string  `json:"fundSources"`
}

// LedgerImportRequest is the body of a cash ledger import.
type LedgerImportRequest struct {
	BrokerIDs  []string  `json:"brokerIds"`
	Amounts    []float64 `json:"amounts"`
	EntryTypes []string  `json:"entryTypes"`
	Dates      []string  `json:"dates"`
}

// RealisedPnlImportRequest is the body of a realised P&L import.
type RealisedPnlImportRequest struct {
	BrokerIDs     []string  `json:"brokerIds"`
	Pnls          []float64 `json:"pnls"`
	EntryTypes    []string  `json:"entryTypes"`
	ContributedBy []string  `json:"contributedBy"`
	Dates         []string  `json:"dates"`
}

// ScripImportRequest is the body of a scrip master-data import.
type ScripImportRequest struct {
	Names         []string `json:"names"`
	Scripcodes    []string `json:"scripcodes"`
	Exchanges     []string `json:"exchanges"`
	ExchangeTypes []string `json:"exchangeTypes"`
	QuoteFeeds    []string `json:"quoteFeeds"`
}

// ClientImportRequest is the body of a CRM import.
type ClientImportRequest struct {
	BrokerIDs        []string `json:"brokerIds"`
	ClientNames      []string `json:"clientNames"`
	PhoneNos         []string `json:"phoneNos"`
	Emails           []string `json:"emails"`
	Addresses        []string `json:"addresses"`
	AccountOpenDates []string `json:"accountOpenDates"`
	AccountTypes     []string `json:"accountTypes"`
	AccountStatuses  []string `json:"accountStatuses"`
}

// BalanceImportRequest is the body of the two admin balance upserts
// (current ledger balance, today's algo P&L).
type BalanceImportRequest struct {
	BrokerIDs []string  `json:"brokerIds"`
	Amounts   []float64 `json:"amounts"`
}
