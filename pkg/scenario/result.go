package scenario

import (
	"fmt"
	"time"
)

// State tracks a scenario through its execution state machine:
// Registered -> Running -> one of Passed, FailedDeterminism, FailedTolerance,
// FailedError. Determinism failure and tolerance failure are distinct
// outcomes: a scenario can repeat bit-for-bit yet still land outside its
// tolerance band, and the two point at different bug classes.
type State int

const (
	// StateRegistered means the definition is stored and nothing has run.
	StateRegistered State = iota

	// StateRunning means repetitions are being collected.
	StateRunning

	// StatePassed means the outputs were bit-identical and within tolerance.
	StatePassed

	// StateFailedDeterminism means at least two repetitions produced
	// different bit patterns.
	StateFailedDeterminism

	// StateFailedTolerance means the outputs were bit-identical but outside
	// the tolerance band around the reference value.
	StateFailedTolerance

	// StateFailedError means the computation itself returned an error, such
	// as a fixed-point overflow.
	StateFailedError
)

// Failed reports whether the state is one of the failure outcomes.
func (s State) Failed() bool {
	return s == StateFailedDeterminism || s == StateFailedTolerance || s == StateFailedError
}

// Terminal reports whether the state machine has finished.
func (s State) Terminal() bool {
	return s == StatePassed || s.Failed()
}

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateRunning:
		return "running"
	case StatePassed:
		return "passed"
	case StateFailedDeterminism:
		return "failed-determinism"
	case StateFailedTolerance:
		return "failed-tolerance"
	case StateFailedError:
		return "failed-error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of executing one scenario. Observations hold every
// repetition's output verbatim, non-finite values included. Deterministic and
// WithinTolerance report the two checks independently; when determinism fails
// the tolerance verdict describes the first observation and is informational.
type Result struct {
	Name            string
	Kind            string
	State           State
	Observations    []Value
	Deterministic   bool
	WithinTolerance bool
	Observed        float64
	Reference       float64
	Tolerance       float64
	Repetitions     int
	Spread          Spread
	Notes           []string
	Err             error
	Elapsed         time.Duration
}

// Passed reports whether both checks succeeded.
func (r Result) Passed() bool {
	return r.State == StatePassed
}
