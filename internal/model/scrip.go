package model

// Scrip represents instrument reference data. CMP (current market price) is
// external reference data refreshed by the quote update job; the core only
// ever reads it.
type Scrip struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Scripcode    string    `json:"scripcode"`
	Exchange     string    `json:"exchange"`     // N, B or M
	ExchangeType string    `json:"exchangeType"` // C, D or U
	QuoteFeed    QuoteFeed `json:"quoteFeed"`
	CMP          float64   `json:"cmp"`
}

// ScripRef is the resolved identity of a (scripcode, feed) pair used during
// import reference resolution.
type ScripRef struct {
	ID        string
	Scripcode string
	QuoteFeed QuoteFeed
}
