package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quote payload module names, as accepted by the quote provider.
const (
	ModulePrice                = "price"
	ModuleSummaryDetail        = "summaryDetail"
	ModuleDefaultKeyStatistics = "defaultKeyStatistics"
	ModuleFinancialData        = "financialData"
)

// DefaultQuoteModules are the modules the metrics report is derived from.
var DefaultQuoteModules = []string{
	ModulePrice,
	ModuleSummaryDetail,
	ModuleDefaultKeyStatistics,
	ModuleFinancialData,
}

// Number is an optionally-absent numeric field from an untrusted payload.
// Decoding never fails: null and anything that is not a finite number (or a
// numeric string, or a {"raw": n} wrapper) decode as absent.
type Number struct {
	value float64
	valid bool
}

// Some returns a present Number. Non-finite values are treated as absent.
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{value: v, valid: true}
}

// None returns an absent Number.
func None() Number {
	return Number{}
}

// Get returns the value and whether it is present.
func (n Number) Get() (float64, bool) {
	return n.value, n.valid
}

// Valid reports whether the value is present.
func (n Number) Valid() bool {
	return n.valid
}

// Positive returns the value only when it is present and greater than zero.
func (n Number) Positive() (float64, bool) {
	if !n.valid || n.value <= 0 {
		return 0, false
	}
	return n.value, true
}

// NonZero returns the value only when it is present and not zero.
func (n Number) NonZero() (float64, bool) {
	if !n.valid || n.value == 0 {
		return 0, false
	}
	return n.value, true
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = parseNumber(bytes.TrimSpace(data))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

func parseNumber(data []byte) Number {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Number{}
	}

	switch data[0] {
	case '{':
		// Unformatted Yahoo shape: {"raw": 1.23, "fmt": "1.23"}
		var wrapped struct {
			Raw json.RawMessage `json:"raw"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil || len(wrapped.Raw) == 0 {
			return Number{}
		}
		return parseNumber(bytes.TrimSpace(wrapped.Raw))
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Number{}
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "N/A") {
			return Number{}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number{}
		}
		return Some(v)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return Number{}
		}
		return Some(v)
	}
}

// Text is an optionally-absent string field. Non-string JSON decodes as empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(strings.TrimSpace(s))
	return nil
}

// PriceModule is the "price" sub-record of a quote.
type PriceModule struct {
	Symbol                     Text   `json:"symbol"`
	LongName                   Text   `json:"longName"`
	ShortName                  Text   `json:"shortName"`
	Currency                   Text   `json:"currency"`
	RegularMarketPrice         Number `json:"regularMarketPrice"`
	RegularMarketChangePercent Number `json:"regularMarketChangePercent"`
	MarketCap                  Number `json:"marketCap"`
}

// SummaryDetailModule is the "summaryDetail" sub-record of a quote.
type SummaryDetailModule struct {
	DividendRate  Number `json:"dividendRate"`
	DividendYield Number `json:"dividendYield"`
	TrailingPE    Number `json:"trailingPE"`
	ForwardPE     Number `json:"forwardPE"`
}

// KeyStatisticsModule is the "defaultKeyStatistics" sub-record of a quote.
type KeyStatisticsModule struct {
	TrailingPE  Number `json:"trailingPE"`
	ForwardPE   Number `json:"forwardPE"`
	TrailingEps Number `json:"trailingEps"`
	ForwardEps  Number `json:"forwardEps"`
	PriceToBook Number `json:"priceToBook"`
	BookValue   Number `json:"bookValue"`
}

// FinancialDataModule is the "financialData" sub-record of a quote.
type FinancialDataModule struct {
	CurrentPrice   Number `json:"currentPrice"`
	ForwardPE      Number `json:"forwardPE"`
	ReturnOnEquity Number `json:"returnOnEquity"`
}

// QuotePayload is the partial, untrusted multi-module quote returned by the
// Quote collaborator. A missing or malformed module decodes as empty.
type QuotePayload struct {
	Price                PriceModule         `json:"price"`
	SummaryDetail        SummaryDetailModule `json:"summaryDetail"`
	DefaultKeyStatistics KeyStatisticsModule `json:"defaultKeyStatistics"`
	FinancialData        FinancialDataModule `json:"financialData"`
}

// UnmarshalJSON decodes each module independently so one malformed module
// does not discard the others.
func (p *QuotePayload) UnmarshalJSON(data []byte) error {
	var modules map[string]json.RawMessage
	if err := json.Unmarshal(data, &modules); err != nil {
		return err
	}

	*p = QuotePayload{}
	decodeModule(modules[ModulePrice], &p.Price)
	decodeModule(modules[ModuleSummaryDetail], &p.SummaryDetail)
	decodeModule(modules[ModuleDefaultKeyStatistics], &p.DefaultKeyStatistics)
	decodeModule(modules[ModuleFinancialData], &p.FinancialData)
	return nil
}

func decodeModule[T any](raw json.RawMessage, dest *T) {
	if len(raw) == 0 {
		return
	}
	var m T
	if err := json.Unmarshal(raw, &m); err != nil {
		return
	}
	*dest = m
}

// DisplayName returns the provider's company name, preferring the long form.
func (p PriceModule) DisplayName() string {
	if p.LongName != "" {
		return string(p.LongName)
	}
	return string(p.ShortName)
}
