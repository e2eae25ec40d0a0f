// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/deal-forecast/pkg/constants"
	"github.com/iwvelando/deal-forecast/pkg/mathutil"
)

// ValidateNonNegative warns when an amount or count is negative or not a
// finite number.
func ValidateNonNegative(dealName, field string, value float64) string {
	if !mathutil.IsFinite(value) {
		return fmt.Sprintf("Deal '%s' field %s is not a finite number (%v)", dealName, field, value)
	}
	if value < 0 {
		return fmt.Sprintf("Deal '%s' field %s is negative (%v) - projected revenue may be negative",
			dealName, field, value)
	}
	return ""
}

// ValidateSplit warns when a profit split falls outside 0-100.
func ValidateSplit(dealName, field string, value float64) string {
	if !mathutil.IsFinite(value) {
		return fmt.Sprintf("Deal '%s' field %s is not a finite number (%v)", dealName, field, value)
	}
	if value < 0 || value > constants.MaxSplitPercent {
		return fmt.Sprintf("Deal '%s' field %s is outside 0-100 (%v) - label share will be %s",
			dealName, field, value, complementNote(value))
	}
	return ""
}

// ValidateGrowthRate warns when compounding would flip revenue signs.
func ValidateGrowthRate(dealName string, value float64) string {
	if !mathutil.IsFinite(value) {
		return fmt.Sprintf("Deal '%s' growth rate is not a finite number (%v)", dealName, value)
	}
	if value < constants.MinGrowthRate {
		return fmt.Sprintf("Deal '%s' growth rate %v%% is below -100%% - revenue will alternate sign",
			dealName, value)
	}
	return ""
}

func complementNote(split float64) string {
	if split > constants.MaxSplitPercent {
		return "negative"
	}
	return "above 100%"
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Deals []DealConfig
}

// DealConfig mirrors the fields of a configured deal that need checking.
type DealConfig struct {
	Name       string
	Active     bool
	Amounts    []Field
	Splits     []Field
	GrowthRate float64
}

// Field is a named numeric input.
type Field struct {
	Name  string
	Value float64
}

// ValidateDeal returns every warning for a single deal.
func ValidateDeal(deal DealConfig) []string {
	var warnings []string
	for _, field := range deal.Amounts {
		if w := ValidateNonNegative(deal.Name, field.Name, field.Value); w != "" {
			warnings = append(warnings, w)
		}
	}
	for _, field := range deal.Splits {
		if w := ValidateSplit(deal.Name, field.Name, field.Value); w != "" {
			warnings = append(warnings, w)
		}
	}
	if w := ValidateGrowthRate(deal.Name, deal.GrowthRate); w != "" {
		warnings = append(warnings, w)
	}
	return warnings
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for i, deal := range cv.Deals {
		name := strings.TrimSpace(deal.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Deal #%d has no name", i+1))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Deal name '%s' is used more than once", name))
		}
		seen[name] = true

		if !deal.Active {
			continue
		}
		active++
		warnings = append(warnings, ValidateDeal(deal)...)
	}

	if len(cv.Deals) > 0 && active == 0 {
		warnings = append(warnings, "No deals are active - nothing will be projected")
	}

	return warnings
}
