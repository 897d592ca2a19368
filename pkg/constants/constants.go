// Package constants provides shared constants for the mortgage-calc application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Schedule generation constants
const (
	// PayoffEpsilon is the remaining balance at or below which a loan is
	// considered fully paid off.
	PayoffEpsilon = 0.005

	// MinPrincipalPortion is the floor applied to the principal portion of a
	// payment when the level payment fails to cover accrued interest; it
	// guarantees the schedule loop makes progress.
	MinPrincipalPortion = 0.01

	// IterationCapFactor bounds schedule generation at
	// IterationCapFactor x termMonths periods. With the MinPrincipalPortion
	// floor active a pathological input amortizes one cent per period, so the
	// cap is what actually terminates those schedules.
	IterationCapFactor = 1000

	// PreviewMonths is the number of leading schedule entries included in
	// the summary preview.
	PreviewMonths = 12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size for the
	// calculation API (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024

	// DefaultRateLimitWindowSeconds is the default rate limit refill window
	DefaultRateLimitWindowSeconds = 60
)

// Validation limit defaults
const (
	// DefaultMaxPrincipal is the largest accepted loan amount
	DefaultMaxPrincipal = 1e9

	// DefaultMaxTermYears is the longest accepted loan term
	DefaultMaxTermYears = 100

	// DefaultMaxRatePercent is the highest accepted annual rate
	DefaultMaxRatePercent = 300.0

	// DefaultMaxPrepayments is the most prepayment events accepted per request
	DefaultMaxPrepayments = 1200
)
