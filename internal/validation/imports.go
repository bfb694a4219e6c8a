package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/api/request"
)

// ValidTrxType contains the allowed holdings transaction type values.
var ValidTrxType = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidOwnedBy contains the allowed lot ownership values.
var ValidOwnedBy = map[string]bool{
	"FIRM": true, "CUSTOMER": true,
}

// ValidFundSource contains the allowed lot funding source values.
var ValidFundSource = map[string]bool{
	"INSIDE_ACCOUNT": true, "OUTSIDE_ACCOUNT": true,
}

// ValidQuoteFeed contains the allowed quote feed values.
var ValidQuoteFeed = map[string]bool{
	"BROKER": true, "MFAPI": true,
}

// ValidLedgerEntryType contains the allowed cash ledger entry kinds.
var ValidLedgerEntryType = map[string]bool{
	"INVESTMENT": true, "CHARGES": true, "INTER_DP_STOCK_SOLD": true, "CUSTOMER_CONTRIBUTED_PNL": true,
}

// ValidPnlContributor contains the allowed realised P&L contributor values.
var ValidPnlContributor = map[string]bool{
	"FIRM": true, "CUSTOMER": true,
}

// checkArity verifies every parallel array matches the batch length.
func checkArity(n int, lengths ...int) error {
	if n == 0 {
		return apperrors.ErrEmptyBatch
	}
	for _, l := range lengths {
		if l != n {
			return apperrors.ErrArityMismatch
		}
	}
	return nil
}

// ValidateHoldingsTrxImport validates a holdings transaction import body.
// All arrays must share the batch length; each row needs a known trx type,
// feed, ownership and funding source, a positive price and quantity, and a
// YYYY-MM-DD date.
func ValidateHoldingsTrxImport(req request.HoldingsTrxImportRequest) error {
	n := len(req.BrokerIDs)
	if err := checkArity(n,
		len(req.Scripcodes), len(req.QuoteFeeds), len(req.TrxTypes),
		len(req.TrxPrices), len(req.Quantities), len(req.TrxDates),
		len(req.OwnedBy), len(req.FundSources),
	); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.BrokerIDs[i]) == "" {
			errors[fmt.Sprintf("brokerIds[%d]", i)] = "broker id is required"
		}
		if strings.TrimSpace(req.Scripcodes[i]) == "" {
			errors[fmt.Sprintf("scripcodes[%d]", i)] = "scripcode is required"
		}
		if !ValidQuoteFeed[req.QuoteFeeds[i]] {
			errors[fmt.Sprintf("quoteFeeds[%d]", i)] = fmt.Sprintf("invalid quote feed: %s", req.QuoteFeeds[i])
		}
		if !ValidTrxType[req.TrxTypes[i]] {
			errors[fmt.Sprintf("trxTypes[%d]", i)] = fmt.Sprintf("invalid trx type: %s", req.TrxTypes[i])
		}
		if req.TrxPrices[i] <= 0 {
			errors[fmt.Sprintf("trxPrices[%d]", i)] = "price must be positive"
		}
		if req.Quantities[i] <= 0 {
			errors[fmt.Sprintf("quantities[%d]", i)] = "quantity must be positive"
		}
		if _, err := time.Parse("2006-01-02", req.TrxDates[i]); err != nil {
			errors[fmt.Sprintf("trxDates[%d]", i)] = err.Error()
		}
		if !ValidOwnedBy[req.OwnedBy[i]] {
			errors[fmt.Sprintf("ownedBy[%d]", i)] = fmt.Sprintf("invalid ownership: %s", req.OwnedBy[i])
		}
		if !ValidFundSource[req.FundSources[i]] {
			errors[fmt.Sprintf("fundSources[%d]", i)] = fmt.Sprintf("invalid fund source: %s", req.FundSources[i])
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateLedgerImport validates a cash ledger import body.
func ValidateLedgerImport(req request.LedgerImportRequest) error {
	n := len(req.BrokerIDs)
	if err := checkArity(n, len(req.Amounts), len(req.EntryTypes), len(req.Dates)); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.BrokerIDs[i]) == "" {
			errors[fmt.Sprintf("brokerIds[%d]", i)] = "broker id is required"
		}
		if !ValidLedgerEntryType[req.EntryTypes[i]] {
			errors[fmt.Sprintf("entryTypes[%d]", i)] = fmt.Sprintf("invalid entry type: %s", req.EntryTypes[i])
		}
		if _, err := time.Parse("2006-01-02", req.Dates[i]); err != nil {
			errors[fmt.Sprintf("dates[%d]", i)] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateRealisedPnlImport validates a realised P&L import body.
func ValidateRealisedPnlImport(req request.RealisedPnlImportRequest) error {
	n := len(req.BrokerIDs)
	if err := checkArity(n, len(req.Pnls), len(req.EntryTypes), len(req.ContributedBy), len(req.Dates)); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.BrokerIDs[i]) == "" {
			errors[fmt.Sprintf("brokerIds[%d]", i)] = "broker id is required"
		}
		if !ValidPnlContributor[req.ContributedBy[i]] {
			errors[fmt.Sprintf("contributedBy[%d]", i)] = fmt.Sprintf("invalid contributor: %s", req.ContributedBy[i])
		}
		if _, err := time.Parse("2006-01-02", req.Dates[i]); err != nil {
			errors[fmt.Sprintf("dates[%d]", i)] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateScripImport validates a scrip master-data import body.
func ValidateScripImport(req request.ScripImportRequest) error {
	n := len(req.Scripcodes)
	if err := checkArity(n, len(req.Names), len(req.Exchanges), len(req.ExchangeTypes), len(req.QuoteFeeds)); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.Scripcodes[i]) == "" {
			errors[fmt.Sprintf("scripcodes[%d]", i)] = "scripcode is required"
		}
		if strings.TrimSpace(req.Names[i]) == "" {
			errors[fmt.Sprintf("names[%d]", i)] = "name is required"
		}
		if !ValidQuoteFeed[req.QuoteFeeds[i]] {
			errors[fmt.Sprintf("quoteFeeds[%d]", i)] = fmt.Sprintf("invalid quote feed: %s", req.QuoteFeeds[i])
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateClientImport validates a CRM import body. Contact fields are
// optional; broker id and client name are not. Account open dates may be
// empty but must parse when present.
func ValidateClientImport(req request.ClientImportRequest) error {
	n := len(req.BrokerIDs)
	if err := checkArity(n,
		len(req.ClientNames), len(req.PhoneNos), len(req.Emails), len(req.Addresses),
		len(req.AccountOpenDates), len(req.AccountTypes), len(req.AccountStatuses),
	); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.BrokerIDs[i]) == "" {
			errors[fmt.Sprintf("brokerIds[%d]", i)] = "broker id is required"
		}
		if strings.TrimSpace(req.ClientNames[i]) == "" {
			errors[fmt.Sprintf("clientNames[%d]", i)] = "client name is required"
		}
		if req.AccountOpenDates[i] != "" {
			if _, err := time.Parse("2006-01-02", req.AccountOpenDates[i]); err != nil {
				errors[fmt.Sprintf("accountOpenDates[%d]", i)] = err.Error()
			}
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateBalanceImport validates an admin balance upsert body. Zero
// amounts are valid.
func ValidateBalanceImport(req request.BalanceImportRequest) error {
	n := len(req.BrokerIDs)
	if err := checkArity(n, len(req.Amounts)); err != nil {
		return err
	}

	errors := make(map[string]string)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(req.BrokerIDs[i]) == "" {
			errors[fmt.Sprintf("brokerIds[%d]", i)] = "broker id is required"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
