package pdf

import (
	"github.com/facio/facio/i18n"
	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders an amount with two decimals in the currency notation
// of lang: "$375.00" or "375.00 kr".
func FormatMoney(v float64, lang string) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if i18n.Normalize(lang) == "sv" {
		return s + " kr"
	}
	return "$" + s
}

// formatNumber prints up to two decimals without trailing zeros.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// FormatPercent turns a rate like 0.25 into "25%".
func FormatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}
