package model

import "time"

// RealisedPnl is one realised gain/loss event. Only firm-contributed rows
// are ever written to this table; customer-contributed P&L is rerouted into
// the cash ledger instead.
type RealisedPnl struct {
	ID            string         `json:"id"`
	ClientID      string         `json:"clientId"`
	Pnl           float64        `json:"pnl"`
	EntryType     string         `json:"entryType"`
	ContributedBy PnlContributor `json:"contributedBy"`
	FromDate      time.Time      `json:"fromDate"`
	ToDate        time.Time      `json:"toDate"`
}

// RealisedPnlInput is one typed row of a realised P&L import batch.
type RealisedPnlInput struct {
	BrokerID      string
	Pnl           float64
	EntryType     string
	ContributedBy PnlContributor
	Date          time.Time
}

// DailyPnl is one point of the per-day realised P&L series.
type DailyPnl struct {
	Date time.Time `json:"date"`
	Pnl  float64   `json:"pnl"`
}
