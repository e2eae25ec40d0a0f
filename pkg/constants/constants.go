// Package constants provides shared constants for the deal-forecast application.
package constants

// Projection constants
const (
	// ProjectionYears is the fixed length of every deal projection.
	ProjectionYears = 15

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatMarkdown renders one GFM table per deal
	OutputFormatMarkdown = "markdown"
)

// Display mode constants
const (
	// DisplayModeCumulative plots running totals
	DisplayModeCumulative = "cumulative"

	// DisplayModeAnnual plots per-year figures
	DisplayModeAnnual = "annual"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultDatabasePath is where saved deals live when no path is configured
	DefaultDatabasePath = "deals.db"

	// EnvPrefix prefixes every environment override read by the server
	EnvPrefix = "DEAL_FORECAST_"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxSplitPercent is the upper bound of an artist profit split
	MaxSplitPercent = 100.0

	// MinGrowthRate is the lowest growth rate that keeps revenue non-negative
	MinGrowthRate = -100.0
)
