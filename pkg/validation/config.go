// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/floatcheck/pkg/constants"
)

// ValidateRepetitions checks whether the repetition count can demonstrate determinism
func ValidateRepetitions(scenarioName string, repetitions int) string {
	if repetitions == 1 {
		return fmt.Sprintf("Scenario '%s' runs a single repetition - nondeterminism cannot be observed", scenarioName)
	}

	return ""
}

// ValidateStabilizationDigits checks whether the digit count exceeds what float64 honors
func ValidateStabilizationDigits(scenarioName string, digits uint) string {
	if digits > constants.Float64DecimalDigitLimit {
		return fmt.Sprintf("Scenario '%s' requests %d stabilization digits but float64 carries about %d significant decimal digits - stabilization degrades to a no-op",
			scenarioName, digits, constants.Float64DecimalDigitLimit)
	}

	return ""
}

// ValidateScale checks whether a fixed-point scale follows the decimal convention
func ValidateScale(scenarioName string, scale int64) string {
	if scale > 0 && !powerOfTen(scale) {
		return fmt.Sprintf("Scenario '%s' uses scale %d which is not a power of ten - quantized values will not align with decimal currency units",
			scenarioName, scale)
	}

	return ""
}

// ValidateTolerance flags tolerance values with surprising semantics
func ValidateTolerance(scenarioName string, tolerance float64) string {
	if tolerance == 0 {
		return fmt.Sprintf("Scenario '%s' uses tolerance 0 - the observation must match the reference exactly", scenarioName)
	}

	return ""
}

func powerOfTen(scale int64) bool {
	for scale > 1 {
		if scale%10 != 0 {
			return false
		}
		scale /= 10
	}
	return scale == 1
}

// SuiteValidator performs comprehensive suite validation
type SuiteValidator struct {
	Suite     SuiteCheck
	Scenarios []ScenarioCheck
}

type SuiteCheck struct {
	Name    string
	Workers int
}

type ScenarioCheck struct {
	Name                string
	Kind                string
	Repetitions         int
	Tolerance           float64
	StabilizationDigits *uint
	Scale               int64
}

// ValidateAll validates the entire suite and returns warnings
func (sv *SuiteValidator) ValidateAll() []string {
	var warnings []string

	// Check for duplicate scenario names since results are keyed by name
	seen := make(map[string]bool)
	for _, scenario := range sv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' appears more than once - results will be ambiguous", scenario.Name))
		}
		seen[scenario.Name] = true
	}

	for _, scenario := range sv.Scenarios {
		if warning := ValidateRepetitions(scenario.Name, scenario.Repetitions); warning != "" {
			warnings = append(warnings, warning)
		}
		if scenario.StabilizationDigits != nil {
			if warning := ValidateStabilizationDigits(scenario.Name, *scenario.StabilizationDigits); warning != "" {
				warnings = append(warnings, warning)
			}
		}
		if warning := ValidateScale(scenario.Name, scenario.Scale); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidateTolerance(scenario.Name, scenario.Tolerance); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if count := len(sv.Scenarios); count > 0 && sv.Suite.Workers > count {
		warnings = append(warnings, fmt.Sprintf("Suite '%s' configures %d workers for %d scenarios - the extra workers stay idle",
			sv.Suite.Name, sv.Suite.Workers, count))
	}

	return warnings
}
