// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/deal-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatMarkdown:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatMarkdown, format)
}

// ValidateDisplayMode checks if the display mode is cumulative or annual.
func ValidateDisplayMode(mode string) error {
	if mode != constants.DisplayModeCumulative && mode != constants.DisplayModeAnnual {
		return fmt.Errorf("expected display mode of %s or %s, got %s",
			constants.DisplayModeCumulative, constants.DisplayModeAnnual, mode)
	}
	return nil
}
