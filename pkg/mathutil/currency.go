// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/deal-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Complement returns the share of value left over after percentage is taken.
func Complement(value, percentage float64) float64 {
	return value * (1 - percentage/constants.PercentageMultiplier)
}

// Compound grows base by rate percent per period over periods periods.
// Zero periods returns base unchanged.
func Compound(base, rate float64, periods int) float64 {
	if periods == 0 {
		return base
	}
	return base * math.Pow(1+rate/constants.PercentageMultiplier, float64(periods))
}
