// Package constants provides shared constants for the mixplan application.
package constants

// Budget and model constants
const (
	// MinimumBudget is the smallest total budget (exclusive) accepted by the
	// model builder; a run with budget <= MinimumBudget is rejected.
	MinimumBudget = 1.0

	// FeasibilityTolerance is the slack allowed when comparing the sum of
	// declared minimums against the total budget.
	FeasibilityTolerance = 1e-9

	// BindingTolerance is the absolute tolerance used to decide whether a
	// constraint is satisfied with equality at the optimum. Scaled by
	// max(1, bound) at the comparison site.
	BindingTolerance = 1e-6

	// SimplexTolerance is the numerical tolerance passed to the LP solver.
	SimplexTolerance = 1e-10
)

// Default scenario names and multipliers
const (
	// ScenarioConservative is the default name of the pessimistic scenario.
	ScenarioConservative = "conservative"

	// ScenarioBase is the default name of the baseline scenario.
	ScenarioBase = "base"

	// ScenarioOptimistic is the default name of the optimistic scenario.
	ScenarioOptimistic = "optimistic"

	// ConservativeMultiplier scales forecasts in the pessimistic scenario.
	ConservativeMultiplier = 0.85

	// BaseMultiplier scales forecasts in the baseline scenario.
	BaseMultiplier = 1.0

	// OptimisticMultiplier scales forecasts in the optimistic scenario.
	OptimisticMultiplier = 1.15
)

// Interpretation thresholds
const (
	// ConcentrationShare is the share of total spend above which a single
	// platform or objective triggers a concentration-risk finding.
	ConcentrationShare = 0.60

	// VolatilityCV is the coefficient of variation above which a variable's
	// allocation is flagged as scenario-sensitive.
	VolatilityCV = 0.15

	// RobustCV is the coefficient of variation at or below which a variable's
	// allocation is considered stable across scenarios.
	RobustCV = 0.02

	// RobustMinShare is the minimum share of budget a variable must carry for
	// a stability finding to be worth reporting.
	RobustMinShare = 0.01

	// UnderutilizationShare is the fraction of the budget that must remain
	// unspent before a budget-underutilization finding fires.
	UnderutilizationShare = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
