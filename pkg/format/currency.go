// Package format renders monetary values for display.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if s, ok := nonFinite(amount); ok {
		return s
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Cents rounds an amount to two decimal places without separators (e.g., "-1234.56").
// Non-finite amounts render as NaN, +Inf or -Inf.
func Cents(amount float64) string {
	if s, ok := nonFinite(amount); ok {
		return s
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Percent renders a percentage with up to two decimals (e.g., "12.5%").
func Percent(value float64) string {
	if s, ok := nonFinite(value); ok {
		return s
	}
	return decimal.NewFromFloat(value).Round(2).String() + "%"
}

func nonFinite(amount float64) (string, bool) {
	switch {
	case math.IsNaN(amount):
		return "NaN", true
	case math.IsInf(amount, 1):
		return "+Inf", true
	case math.IsInf(amount, -1):
		return "-Inf", true
	}
	return "", false
}

func formatPositiveCurrency(value float64) string {
	formatted := decimal.NewFromFloat(value).StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
