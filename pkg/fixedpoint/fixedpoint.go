// Package fixedpoint maps floating-point values to exact integer
// representations at a declared power-of-ten scale, enabling equality-safe
// arithmetic on fractional quantities (cents, micro-units). Conversions use
// the same round-half-away-from-zero rule as package stabilize; overflow is
// an error, never a silent wrap.
package fixedpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/floatcheck/pkg/constants"
	"github.com/iwvelando/floatcheck/pkg/floatcmp"
)

// ErrOverflow reports a conversion whose rounded product falls outside the
// int64 range.
var ErrOverflow = errors.New("fixed-point conversion overflows int64")

// ErrNotFinite reports a NaN or infinite input, which has no fixed-point
// representation.
var ErrNotFinite = errors.New("fixed-point conversion of non-finite value")

// float64(math.MaxInt64) rounds up to 2^63, one past the last valid value,
// so the bound check uses >= on the high side and < on the low side
// (float64(math.MinInt64) is exactly -2^63 and is itself valid).
const (
	maxInt64AsFloat = float64(math.MaxInt64)
	minInt64AsFloat = float64(math.MinInt64)
)

// ToFixed converts value to its integer representation at scale, computing
// round(value * scale) with rounding pinned half away from zero. The
// multiplication happens at the width of value, so float32 inputs are subject
// to float32 resolution. A non-positive scale panics; the same scale must be
// used for the inverse conversion or the round-trip bound does not apply.
func ToFixed[F floatcmp.Float](value F, scale int64) (int64, error) {
	checkScale(scale)
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotFinite, float64(value))
	}

	scaled := float64(value * F(scale))
	if math.IsInf(scaled, 0) {
		return 0, fmt.Errorf("%w: %v at scale %d", ErrOverflow, float64(value), scale)
	}

	rounded := math.Round(scaled)
	if rounded >= maxInt64AsFloat || rounded < minInt64AsFloat {
		return 0, fmt.Errorf("%w: %v at scale %d", ErrOverflow, float64(value), scale)
	}
	return int64(rounded), nil
}

// FromFixed converts a fixed-point integer back to a floating value at the
// requested width, computing fixed / scale. For values whose magnitude times
// scale stays within the width's exactly-representable integer range, the
// round trip through ToFixed differs from the original by at most
// 1/(2*scale). A non-positive scale panics.
func FromFixed[F floatcmp.Float](fixed, scale int64) F {
	checkScale(scale)
	return F(fixed) / F(scale)
}

// Cents converts a currency amount to integer cents.
func Cents(value float64) (int64, error) {
	return ToFixed(value, constants.CentsScale)
}

// FromCents converts integer cents back to a currency amount.
func FromCents(cents int64) float64 {
	return FromFixed[float64](cents, constants.CentsScale)
}

func checkScale(scale int64) {
	if scale <= 0 {
		panic(fmt.Sprintf("fixedpoint: scale must be positive, got %d", scale))
	}
}
