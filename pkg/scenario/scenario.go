package scenario

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrContract marks a definition that violates the registration contract:
// missing computation, non-positive repetition count, negative tolerance.
// Contract violations reject the definition immediately and are never
// coerced into a runnable scenario.
var ErrContract = errors.New("scenario contract violation")

// ComputeFunc produces one observation. The runner invokes it once per
// repetition with no state carried between calls; it must be pure so that
// any output difference can only come from the execution environment. The
// error return exists for per-call failures such as fixed-point overflow and
// drives the scenario to the failed-error state without aborting the batch.
type ComputeFunc func() (Value, error)

// Definition describes one precision scenario: a named computation with its
// expected reference value, tolerance band, and repetition count. Params and
// Series echo the inputs for reporting; the computation itself closes over
// them. Definitions are immutable once registered; the runner clones them at
// registration time.
type Definition struct {
	Name        string
	Kind        string
	Params      map[string]float64
	Series      []float64
	Compute     ComputeFunc
	Reference   float64
	Tolerance   float64
	Repetitions int
}

// Validate checks the registration contract. Tolerance and repetition count
// must always be explicit; a zero-value Definition is not runnable.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: scenario name must not be empty", ErrContract)
	}
	if d.Compute == nil {
		return fmt.Errorf("%w: scenario %s has no computation", ErrContract, d.Name)
	}
	if d.Repetitions < 1 {
		return fmt.Errorf("%w: scenario %s repetition count must be positive, got %d",
			ErrContract, d.Name, d.Repetitions)
	}
	if math.IsNaN(d.Tolerance) || math.IsInf(d.Tolerance, 0) || d.Tolerance < 0 {
		return fmt.Errorf("%w: scenario %s tolerance must be a finite non-negative number, got %v",
			ErrContract, d.Name, d.Tolerance)
	}
	if math.IsNaN(d.Reference) || math.IsInf(d.Reference, 0) {
		return fmt.Errorf("%w: scenario %s reference value must be finite, got %v",
			ErrContract, d.Name, d.Reference)
	}
	return nil
}

// Clone returns a copy whose Params map and Series slice do not alias the
// original, so callers cannot mutate a registered definition afterwards.
func (d Definition) Clone() Definition {
	clone := d
	if d.Params != nil {
		clone.Params = maps.Clone(d.Params)
	}
	clone.Series = slices.Clone(d.Series)
	return clone
}
