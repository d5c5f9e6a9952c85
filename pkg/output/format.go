// Package output provides utilities for formatting and displaying
// verification results.
package output

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iwvelando/floatcheck/internal/runner"
	"github.com/iwvelando/floatcheck/pkg/scenario"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *runner.Result) {
	fmt.Print(PrettyString(result))
}

// PrettyString renders the table printed by PrettyFormat and returns it.
// Observed and reference values keep their shortest round-trip form so
// nothing is lost to display rounding.
func PrettyString(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var builder strings.Builder
	p := message.NewPrinter(language.English)

	fmt.Fprintf(&builder, "--- Results for suite %s ---\n", result.Suite)
	fmt.Fprintf(&builder, "Scenario | Kind | State | Observed | Reference | Delta | Tolerance | Repetitions\n")
	fmt.Fprintf(&builder, "________ | ____ | _____ | ________ | _________ | _____ | _________ | ___________\n")

	totalRepetitions := 0
	for _, res := range result.Results {
		totalRepetitions += res.Repetitions
		fmt.Fprintf(&builder, "%s | %s | %s | %v | %v | %v | %v | %d\n",
			res.Name, res.Kind, res.State, res.Observed, res.Reference,
			math.Abs(res.Observed-res.Reference), res.Tolerance, res.Repetitions)
		if res.Err != nil {
			fmt.Fprintf(&builder, "    error: %v\n", res.Err)
		}
		for _, note := range res.Notes {
			fmt.Fprintf(&builder, "    note: %s\n", note)
		}
		if res.Spread.Valid && res.Spread.StdDev != 0 {
			fmt.Fprintf(&builder, "    spread: min=%v max=%v mean=%v stddev=%v\n",
				res.Spread.Min, res.Spread.Max, res.Spread.Mean, res.Spread.StdDev)
		}
	}

	counts := result.Counts()
	summary := p.Sprintf("Executed %d scenarios with %d total repetitions in %s: %d passed, %d failed determinism, %d failed tolerance, %d errored\n",
		len(result.Results), totalRepetitions, result.Elapsed,
		counts[scenario.StatePassed],
		counts[scenario.StateFailedDeterminism],
		counts[scenario.StateFailedTolerance],
		counts[scenario.StateFailedError])
	builder.WriteString(summary)

	return builder.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *runner.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the CSV document printed by CsvFormat and returns it.
func CsvString(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(`"scenario","kind","state","deterministic","withinTolerance","observed","reference","delta","tolerance","repetitions","notes"`)
	builder.WriteString("\n")

	for _, res := range result.Results {
		notes := res.Notes
		if res.Err != nil {
			notes = append(append([]string{}, notes...), res.Err.Error())
		}
		fmt.Fprintf(&builder, `"%s","%s","%s","%t","%t","%v","%v","%v","%v","%d","%s"`,
			res.Name, res.Kind, res.State, res.Deterministic, res.WithinTolerance,
			res.Observed, res.Reference, math.Abs(res.Observed-res.Reference),
			res.Tolerance, res.Repetitions, strings.Join(notes, ","))
		builder.WriteString("\n")
	}

	return builder.String()
}
