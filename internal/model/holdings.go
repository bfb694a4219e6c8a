package model

import "time"

// HoldingsLot represents one buy event's remaining open position. A lot is
// created by a BUY row and mutated in place by each SELL match; it is never
// deleted. OpenQuantity is always BuyQuantity - SellQuantity; a lot with
// OpenQuantity zero is fully closed and excluded from sell matching and from
// unrealised-P&L aggregation.
type HoldingsLot struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"clientId"`
	ScripID       string     `json:"scripId"`
	BuyQuantity   float64    `json:"buyQuantity"`
	BuyPrice      float64    `json:"buyPrice"`
	BuyValue      float64    `json:"buyValue"`
	BuyDate       time.Time  `json:"buyDate"`
	SellQuantity  float64    `json:"sellQuantity"`
	SellPrice     float64    `json:"sellPrice"` // weighted average across matches
	SellValue     float64    `json:"sellValue"`
	SellDate      *time.Time `json:"sellDate,omitempty"`
	OpenQuantity  float64    `json:"openQuantity"`
	UnrealisedPnl float64    `json:"unrealisedPnl"`
	MarketValue   float64    `json:"marketValue"`
	OwnedBy       OwnedBy    `json:"ownedBy"`
	FundSource    FundSource `json:"fundSource"`
	FromDate      time.Time  `json:"fromDate"`
	ToDate        time.Time  `json:"toDate"`
}

// HoldingsTrx is one typed row of a holdings transaction import batch.
type HoldingsTrx struct {
	BrokerID   string
	Scripcode  string
	QuoteFeed  QuoteFeed
	TrxType    TrxType
	TrxPrice   float64
	Quantity   float64
	TrxDate    time.Time
	OwnedBy    OwnedBy
	FundSource FundSource
}

// LotCashflow is the reduced lot shape used when building the XIRR cash-flow
// series: the lot's buy date plus whichever monetary field the series needs.
type LotCashflow struct {
	BuyDate time.Time
	Amount  float64
}
