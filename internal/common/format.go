package common

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Unavailable is the display marker for a metric that is missing or malformed.
const Unavailable = "-"

// FormatFixed renders v with exactly places decimals, rounding half away from zero.
func FormatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatPercent renders a fraction (0.0235) as a percentage with two decimals ("2.35").
func FormatPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(2)
}

// FormatRounded renders v rounded to the nearest integer.
func FormatRounded(v float64) string {
	return decimal.NewFromFloat(v).Round(0).String()
}

// FormatRaw renders v in its shortest round-trip form ("3550", "123.45").
func FormatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSignedPct renders a percentage with two decimals and an explicit sign.
func FormatSignedPct(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

// ScaleDiv returns v divided by divisor using decimal arithmetic.
func ScaleDiv(v float64, divisor int64) decimal.Decimal {
	return decimal.NewFromFloat(v).Div(decimal.NewFromInt(divisor))
}
