package testutil

import (
	"context"

	"github.com/ifinlabs/wealth-reporting-backend/internal/marketdata"
)

// MockMarketClient is a mock implementation of marketdata.Client for
// testing. It returns predefined prices instead of making actual API calls.
type MockMarketClient struct {
	// BrokerPrices is returned from BrokerQuotes, keyed by scripcode.
	BrokerPrices map[string]float64
	// NAVs is returned from MutualFundNAV, keyed by scheme code.
	NAVs map[string]float64
	// Err is returned from both query methods when set.
	Err error
	// QueryCount tracks how many times a query method was called.
	QueryCount int
}

// NewMockMarketClient creates a mock market-data client with empty price
// maps.
func NewMockMarketClient() *MockMarketClient {
	return &MockMarketClient{
		BrokerPrices: map[string]float64{},
		NAVs:         map[string]float64{},
	}
}

// WithBrokerPrice registers a brokerage feed price for a scripcode.
func (m *MockMarketClient) WithBrokerPrice(scripcode string, price float64) *MockMarketClient {
	m.BrokerPrices[scripcode] = price
	return m
}

// WithNAV registers a mutual fund NAV for a scheme code.
func (m *MockMarketClient) WithNAV(schemeCode string, nav float64) *MockMarketClient {
	m.NAVs[schemeCode] = nav
	return m
}

// WithError configures the mock to fail every query with err.
func (m *MockMarketClient) WithError(err error) *MockMarketClient {
	m.Err = err
	return m
}

// BrokerQuotes returns the configured brokerage prices for the requested
// scrips.
func (m *MockMarketClient) BrokerQuotes(_ context.Context, reqs []marketdata.QuoteRequest) (map[string]float64, error) {
	m.QueryCount++
	if m.Err != nil {
		return nil, m.Err
	}

	prices := make(map[string]float64, len(reqs))
	for _, req := range reqs {
		if price, ok := m.BrokerPrices[req.Scripcode]; ok {
			prices[req.Scripcode] = price
		}
	}
	return prices, nil
}

// MutualFundNAV returns the configured NAV for the scheme code.
func (m *MockMarketClient) MutualFundNAV(_ context.Context, schemeCode string) (float64, error) {
	m.QueryCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.NAVs[schemeCode], nil
}
