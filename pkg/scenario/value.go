// Package scenario defines the precision-scenario model: width-tagged
// observations, immutable scenario definitions, the execution state machine,
// and per-scenario results.
package scenario

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"
)

// Width identifies the IEEE 754 width of an observed value.
type Width int

const (
	// Width32 marks a float32 observation.
	Width32 Width = 32

	// Width64 marks a float64 observation.
	Width64 Width = 64
)

func (w Width) String() string {
	switch w {
	case Width32:
		return "float32"
	case Width64:
		return "float64"
	default:
		return "width(" + strconv.Itoa(int(w)) + ")"
	}
}

// Value is one observed output: an IEEE 754 bit pattern tagged with its
// width. Identity is bit identity, so NaN payload differences are visible to
// the determinism check instead of collapsing into a single NaN. Construct
// values with F32 or F64; the zero Value has no width and matches nothing.
type Value struct {
	bits  uint64
	width Width
}

// F32 captures a float32 observation.
func F32(v float32) Value {
	return Value{bits: uint64(math.Float32bits(v)), width: Width32}
}

// F64 captures a float64 observation.
func F64(v float64) Value {
	return Value{bits: math.Float64bits(v), width: Width64}
}

// Bits returns the raw bit pattern, zero-extended for float32 values.
func (v Value) Bits() uint64 {
	return v.bits
}

// Width returns the value's IEEE 754 width.
func (v Value) Width() Width {
	return v.width
}

// Float64 returns the observation widened to float64. Widening a float32 is
// exact, so a comparison against a float64 reference sees the float32
// representation error unchanged.
func (v Value) Float64() float64 {
	if v.width == Width32 {
		return float64(math.Float32frombits(uint32(v.bits)))
	}
	return math.Float64frombits(v.bits)
}

// IsNaN reports whether the observation is a NaN.
func (v Value) IsNaN() bool {
	return math.IsNaN(v.Float64())
}

// IsInf reports whether the observation is infinite.
func (v Value) IsInf() bool {
	return math.IsInf(v.Float64(), 0)
}

// Identical reports whether v and other share both width and bit pattern.
func (v Value) Identical(other Value) bool {
	return v.width == other.width && v.bits == other.bits
}

// String formats the value at its own width with the shortest representation
// that round-trips.
func (v Value) String() string {
	if v.width == Width32 {
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	}
	return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
}

// Identical reports whether every observation shares the width and bit
// pattern of the first. Slices of length zero or one are trivially identical.
func Identical(observations []Value) bool {
	for i := 1; i < len(observations); i++ {
		if !observations[0].Identical(observations[i]) {
			return false
		}
	}
	return true
}

// Spread summarizes the float64 view of a set of observations. For a
// deterministic scenario min, max, and mean coincide and the deviation is
// zero; when determinism fails the spread quantifies how far the outputs
// drifted.
type Spread struct {
	Valid  bool
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// ComputeSpread derives the observation spread. The result is marked invalid
// when there are no observations or any observation is non-finite, since
// order statistics over NaN are meaningless.
func ComputeSpread(observations []Value) Spread {
	if len(observations) == 0 {
		return Spread{}
	}

	data := make(stats.Float64Data, 0, len(observations))
	for _, obs := range observations {
		if obs.IsNaN() || obs.IsInf() {
			return Spread{}
		}
		data = append(data, obs.Float64())
	}

	min, err := stats.Min(data)
	if err != nil {
		return Spread{}
	}
	max, err := stats.Max(data)
	if err != nil {
		return Spread{}
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return Spread{}
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Spread{}
	}

	return Spread{Valid: true, Min: min, Max: max, Mean: mean, StdDev: stdDev}
}
