// Package floatcmp provides tolerance-based comparison of floating-point
// values. Every predicate takes the tolerance as an explicit parameter; the
// package defines no default epsilon, so each call site documents the band it
// accepts.
package floatcmp

import "math"

// Float constrains operands to the two IEEE 754 widths. Differences are
// computed at the operands' own width before any widening, so float32
// comparisons see float32 representation error rather than a hidden
// double-precision view.
type Float interface {
	~float32 | ~float64
}

// Within reports whether a and b differ by at most tol in absolute value.
// If either operand is NaN the result is false; callers that need to
// distinguish NaN from a plain mismatch must test for it separately.
// A negative or NaN tolerance panics.
func Within[F Float](a, b, tol F) bool {
	checkTolerance(float64(tol))
	return math.Abs(float64(a-b)) <= float64(tol)
}

// IsZero reports whether val is within tol of zero.
func IsZero[F Float](val, tol F) bool {
	checkTolerance(float64(tol))
	return math.Abs(float64(val)) <= float64(tol)
}

// IsPositive reports whether val exceeds tol.
func IsPositive[F Float](val, tol F) bool {
	checkTolerance(float64(tol))
	return float64(val) > float64(tol)
}

// IsNegative reports whether val is below -tol.
func IsNegative[F Float](val, tol F) bool {
	checkTolerance(float64(tol))
	return float64(val) < -float64(tol)
}

func checkTolerance(tol float64) {
	if tol < 0 || math.IsNaN(tol) {
		panic("floatcmp: tolerance must be a non-negative number")
	}
}
