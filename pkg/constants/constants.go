// Package constants provides shared constants for the floatcheck application.
package constants

// Fixed-point scale factors. Scales are powers of ten; the name reflects the
// resolution of one integer unit at that scale.
const (
	// CentsScale represents two decimal places (currency cents)
	CentsScale int64 = 100

	// MicroUnitScale represents six decimal places
	MicroUnitScale int64 = 1_000_000

	// NanoUnitScale represents nine decimal places
	NanoUnitScale int64 = 1_000_000_000

	// PicoUnitScale represents twelve decimal places
	PicoUnitScale int64 = 1_000_000_000_000

	// FemtoUnitScale represents fifteen decimal places
	FemtoUnitScale int64 = 1_000_000_000_000_000
)

// Precision limits
const (
	// RecommendedStabilizationDigits is the recommended decimal resolution for
	// stabilizing financial computations before comparison or conversion.
	RecommendedStabilizationDigits uint = 12

	// Float64DecimalDigitLimit is the number of decimal digits a float64 can
	// reliably carry; stabilizing beyond it cannot add information.
	Float64DecimalDigitLimit uint = 15

	// Float32DecimalDigitLimit is the float32 equivalent.
	Float32DecimalDigitLimit uint = 6

	// Float32ExactIntegerLimit is the largest power-of-two bound below which
	// every integer is exactly representable in a float32 (2^24).
	Float32ExactIntegerLimit = 1 << 24

	// Float64ExactIntegerLimit is the float64 equivalent (2^53).
	Float64ExactIntegerLimit = 1 << 53
)

// There is intentionally no default tolerance and no default repetition count
// here. Both are per-scenario policy values and must appear explicitly in
// every suite entry.

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default suite file name
	DefaultConfigFile = "suite.yaml"

	// ExampleConfigFile is the example suite file name
	ExampleConfigFile = "suite.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the
	// verification API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML
	// suites (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
