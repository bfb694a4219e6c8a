package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client defines the interface for fetching current market prices.
// This interface enables dependency injection and testing with mock
// implementations.
type Client interface {
	// BrokerQuotes fetches last-traded prices for a batch of
	// exchange-traded scrips from the brokerage market feed. The result is
	// keyed by scripcode.
	BrokerQuotes(ctx context.Context, reqs []QuoteRequest) (map[string]float64, error)

	// MutualFundNAV fetches the latest NAV for one mutual fund scheme code.
	MutualFundNAV(ctx context.Context, schemeCode string) (float64, error)
}

// QuoteRequest identifies one exchange-traded scrip on the brokerage feed.
type QuoteRequest struct {
	Exchange     string `json:"Exch"`
	ExchangeType string `json:"ExchType"`
	Scripcode    string `json:"ScripCode"`
}

// brokerQuote is one row of the brokerage feed response.
type brokerQuote struct {
	Token    json.Number `json:"Token"`
	LastRate float64     `json:"LastRate"`
}

// mfQuote is the mutual fund NAV lookup response.
type mfQuote struct {
	SchemeCode json.Number `json:"schema_code"`
	NAV        float64     `json:"nav"`
}

// FinanceClient provides methods for fetching market prices over HTTP. It
// wraps an HTTP client and the two vendor endpoints.
type FinanceClient struct {
	httpClient *http.Client
	brokerURL  string
	mfURL      string
}

// NewFinanceClient creates a new market-data client with default HTTP
// settings for the given vendor endpoints.
func NewFinanceClient(brokerURL, mfURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		brokerURL:  brokerURL,
		mfURL:      mfURL,
	}
}

// BrokerQuotes posts the batch quote request to the brokerage feed and
// returns last-traded prices keyed by scripcode.
func (c *FinanceClient) BrokerQuotes(ctx context.Context, reqs []QuoteRequest) (map[string]float64, error) {
	if len(reqs) == 0 {
		return map[string]float64{}, nil
	}

	body, err := json.Marshal(map[string]any{"MarketFeedData": reqs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.brokerURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("broker feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broker feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read broker feed response: %w", err)
	}

	var quotes []brokerQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode broker feed response: %w", err)
	}

	prices := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		prices[q.Token.String()] = q.LastRate
	}

	return prices, nil
}

// MutualFundNAV fetches the latest NAV for one scheme code.
func (c *FinanceClient) MutualFundNAV(ctx context.Context, schemeCode string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.mfURL+"/"+schemeCode, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("mutual fund feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("mutual fund feed returned status %d", resp.StatusCode)
	}

	var quote mfQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("failed to decode mutual fund feed response: %w", err)
	}

	return quote.NAV, nil
}
