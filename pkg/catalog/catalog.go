// Package catalog provides the built-in corpus of precision scenarios:
// cancellation, accumulation, compounding, power sensitivity, fixed-point
// currency flows, and the market-style computations (pool pricing, oracle
// aggregation) that motivated the toolkit. A registry maps configuration
// kind names to builders so suites can instantiate any corpus scenario from
// YAML alone.
package catalog

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/iwvelando/floatcheck/pkg/scenario"
)

// Kind names accepted in suite configuration.
const (
	KindCancellation32    = "cancellation32"
	KindCancellation64    = "cancellation64"
	KindAccumulation32    = "accumulation32"
	KindAccumulation64    = "accumulation64"
	KindClassicSum        = "classic-sum"
	KindCompound          = "compound"
	KindCompoundIterative = "compound-iterative"
	KindCompoundCents     = "compound-cents"
	KindPower             = "power"
	KindDecay             = "decay"
	KindLiquidityPool     = "liquidity-pool"
	KindOracleMedian      = "oracle-median"
	KindLedgerSum         = "ledger-sum"
	KindPrecisionLimit32  = "precision-limit32"
	KindPrecisionLimit64  = "precision-limit64"
)

// Spec carries one suite entry through scenario construction. Tolerance and
// Repetitions are always explicit. Reference may be nil for kinds with an
// exact reference path; StabilizationDigits engages a stabilization step in
// kinds that support one; Scale is required by fixed-point kinds; Series
// feeds list-valued computations.
type Spec struct {
	Name                string
	Kind                string
	Repetitions         int
	Tolerance           float64
	Reference           *float64
	StabilizationDigits *uint
	Scale               int64
	Params              map[string]float64
	Series              []float64
}

type builder struct {
	build        func(Spec) (scenario.Definition, error)
	hasReference bool
}

var kinds = map[string]builder{
	KindCancellation32:    {buildCancellation32, true},
	KindCancellation64:    {buildCancellation64, true},
	KindAccumulation32:    {buildAccumulation32, true},
	KindAccumulation64:    {buildAccumulation64, true},
	KindClassicSum:        {buildClassicSum, true},
	KindCompound:          {buildCompound, true},
	KindCompoundIterative: {buildCompoundIterative, true},
	KindCompoundCents:     {buildCompoundCents, true},
	KindPower:             {buildPower, false},
	KindDecay:             {buildDecay, false},
	KindLiquidityPool:     {buildLiquidityPool, false},
	KindOracleMedian:      {buildOracleMedian, false},
	KindLedgerSum:         {buildLedgerSum, true},
	KindPrecisionLimit32:  {buildPrecisionLimit32, false},
	KindPrecisionLimit64:  {buildPrecisionLimit64, false},
}

// Build constructs the scenario definition for the entry's kind. Unknown
// kinds, missing parameters, and missing reference values fail here so a
// bad suite is rejected before anything runs.
func Build(spec Spec) (scenario.Definition, error) {
	b, ok := kinds[spec.Kind]
	if !ok {
		return scenario.Definition{}, fmt.Errorf("scenario %s: unknown kind %q", spec.Name, spec.Kind)
	}
	return b.build(spec)
}

// Kinds returns all registered kind names in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasReferencePath reports whether the kind derives its reference value
// through the exact-decimal path when the configuration does not pin one.
func HasReferencePath(kind string) bool {
	b, ok := kinds[kind]
	return ok && b.hasReference
}

func (s Spec) param(key string) (float64, error) {
	value, ok := s.Params[key]
	if !ok {
		return 0, fmt.Errorf("scenario %s: kind %s requires param %q", s.Name, s.Kind, key)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("scenario %s: param %q must be finite, got %v", s.Name, key, value)
	}
	return value, nil
}

func (s Spec) intParam(key string) (int, error) {
	value, err := s.param(key)
	if err != nil {
		return 0, err
	}
	n := int(value)
	if float64(n) != value {
		return 0, fmt.Errorf("scenario %s: param %q must be an integer, got %v", s.Name, key, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("scenario %s: param %q must not be negative, got %d", s.Name, key, n)
	}
	return n, nil
}

func (s Spec) scaleParam() (int64, error) {
	if s.Scale <= 0 {
		return 0, fmt.Errorf("scenario %s: kind %s requires a positive scale, got %d", s.Name, s.Kind, s.Scale)
	}
	return s.Scale, nil
}

func (s Spec) seriesInput() ([]float64, error) {
	if len(s.Series) == 0 {
		return nil, fmt.Errorf("scenario %s: kind %s requires a non-empty series", s.Name, s.Kind)
	}
	for i, value := range s.Series {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("scenario %s: series entry %d must be finite, got %v", s.Name, i, value)
		}
	}
	return slices.Clone(s.Series), nil
}

// reference resolves the expected value: an explicit configuration value wins,
// otherwise the kind's derivation runs. Kinds without a derivation demand an
// explicit value.
func (s Spec) reference(derive func() (float64, error)) (float64, error) {
	if s.Reference != nil {
		return *s.Reference, nil
	}
	if derive == nil {
		return 0, fmt.Errorf("scenario %s: kind %s requires an explicit reference value", s.Name, s.Kind)
	}
	ref, err := derive()
	if err != nil {
		return 0, fmt.Errorf("scenario %s: reference path failed: %w", s.Name, err)
	}
	return ref, nil
}

func (s Spec) definition(compute scenario.ComputeFunc, reference float64) scenario.Definition {
	return scenario.Definition{
		Name:        s.Name,
		Kind:        s.Kind,
		Params:      maps.Clone(s.Params),
		Series:      slices.Clone(s.Series),
		Compute:     compute,
		Reference:   reference,
		Tolerance:   s.Tolerance,
		Repetitions: s.Repetitions,
	}
}
