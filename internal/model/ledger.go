package model

import "time"

// LedgerEntry is an immutable append-only record of a cash movement. The
// running balance is always derived by aggregation, never stored on the
// entry itself.
type LedgerEntry struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Amount    float64         `json:"amount"`
	EntryType LedgerEntryType `json:"entryType"`
	FromDate  time.Time       `json:"fromDate"`
	ToDate    time.Time       `json:"toDate"`
}

// LedgerInput is one typed row of a cash ledger import batch.
type LedgerInput struct {
	BrokerID  string
	Amount    float64
	EntryType LedgerEntryType
	Date      time.Time
}

// InvestedCash is a temporally versioned snapshot of cumulative invested
// cash. At most one row per client is open ended (ToDate == MaxDate);
// superseding a row closes its ToDate and opens a new one.
type InvestedCash struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	Amount   float64   `json:"amount"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
}

// WithdrawnCash is the single mutable withdrawn-cash balance per client. It
// accumulates the shortfall whenever the ledger-derived capital balance
// falls below the recorded invested-cash amount.
type WithdrawnCash struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId"`
	Amount   float64 `json:"amount"`
}

// DatedAmount pairs an amount with the date it applies to; used for ledger
// and P&L cash-flow listings.
type DatedAmount struct {
	Date   time.Time
	Amount float64
}
