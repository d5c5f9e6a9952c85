// Package stabilize rounds computed floating-point values to a fixed decimal
// resolution, producing a canonical representation that repeats bit-for-bit
// across runs. Multi-step computations (compounding, power functions) carry
// noise in their lowest-order digits; stabilizing at a declared resolution
// discards exactly that noise and nothing else.
//
// The rounding rule is pinned to round-half-away-from-zero (math.Round).
// Relying on an ambient rounding mode would reintroduce the cross-platform
// divergence this package exists to remove.
package stabilize

import (
	"math"

	"github.com/iwvelando/floatcheck/pkg/floatcmp"
)

// Stabilize rounds value to the given number of decimal digits, computing
// round(value * 10^digits) / 10^digits at the width of value.
//
// Any digit count is accepted. For float64 values, digits beyond 15 exceed
// the precision the format can carry, so the operation degenerates into a
// near no-op that may leave low-order noise in place (float32: 6 digits).
// If 10^digits overflows the value's width, or the scaled product does,
// the value is returned unchanged; at those magnitudes one decimal step is
// already below the representable resolution. NaN and infinities propagate
// verbatim.
func Stabilize[F floatcmp.Float](value F, digits uint) F {
	scale := F(math.Pow10(int(digits)))
	scaled := value * scale
	if math.IsNaN(float64(scaled)) || math.IsInf(float64(scaled), 0) {
		return value
	}
	return F(math.Round(float64(scaled))) / scale
}
