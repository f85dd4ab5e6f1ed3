// Package metrics derives the display report from a raw quote payload.
package metrics

import (
	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/models"
)

const (
	trillion        = 1_000_000_000_000
	hundredMillion  = 100_000_000
	trillionYenUnit = "兆円"
	okuYenUnit      = "億円"
)

// DeriveReport maps a quote payload onto a MetricsReport. It never fails:
// every missing or malformed field becomes common.Unavailable. A nil
// payload yields a report with only the name and symbol set.
func DeriveReport(payload *models.QuotePayload, displayName, symbol string) models.MetricsReport {
	if payload == nil {
		payload = &models.QuotePayload{}
	}

	price := payload.Price
	detail := payload.SummaryDetail
	stats := payload.DefaultKeyStatistics
	fin := payload.FinancialData

	per, perSource := derivePER(payload)

	return models.MetricsReport{
		Symbol:        symbol,
		Name:          displayName,
		Price:         raw(price.RegularMarketPrice),
		PER:           per,
		PERSource:     perSource,
		PBR:           fixed(stats.PriceToBook),
		EPS:           rawNonZero(stats.TrailingEps),
		DividendRate:  rawNonZero(detail.DividendRate),
		DividendYield: percent(detail.DividendYield),
		ROE:           percent(fin.ReturnOnEquity),
		BPS:           rounded(stats.BookValue),
		MarketCap:     FormatMarketCap(price.MarketCap),
	}
}

// derivePER applies the P/E precedence: trailing, forward, then price over
// trailing EPS. Only a strictly positive candidate is accepted.
func derivePER(p *models.QuotePayload) (string, string) {
	if v, ok := p.DefaultKeyStatistics.TrailingPE.Positive(); ok {
		return common.FormatFixed(v, 2), models.PERSourceTrailing
	}
	if v, ok := p.FinancialData.ForwardPE.Positive(); ok {
		return common.FormatFixed(v, 2), models.PERSourceForward
	}
	if price, ok := p.Price.RegularMarketPrice.Get(); ok {
		if eps, ok := p.DefaultKeyStatistics.TrailingEps.Positive(); ok {
			return common.FormatFixed(price/eps, 2), models.PERSourceComputed
		}
	}
	return common.Unavailable, models.PERSourceNone
}

// FormatMarketCap scales a market cap in yen: 1兆 and above as trillions with
// two decimals, anything smaller as whole 億 units.
func FormatMarketCap(n models.Number) string {
	v, ok := n.Positive()
	if !ok {
		return common.Unavailable
	}
	if v >= trillion {
		return common.ScaleDiv(v, trillion).StringFixed(2) + trillionYenUnit
	}
	return common.ScaleDiv(v, hundredMillion).Round(0).String() + okuYenUnit
}

func raw(n models.Number) string {
	if v, ok := n.Get(); ok {
		return common.FormatRaw(v)
	}
	return common.Unavailable
}

func rawNonZero(n models.Number) string {
	if v, ok := n.NonZero(); ok {
		return common.FormatRaw(v)
	}
	return common.Unavailable
}

func fixed(n models.Number) string {
	if v, ok := n.NonZero(); ok {
		return common.FormatFixed(v, 2)
	}
	return common.Unavailable
}

// percent renders a fraction as a percentage with two decimals.
func percent(n models.Number) string {
	if v, ok := n.NonZero(); ok {
		return common.FormatPercent(v)
	}
	return common.Unavailable
}

func rounded(n models.Number) string {
	if v, ok := n.NonZero(); ok {
		return common.FormatRounded(v)
	}
	return common.Unavailable
}
