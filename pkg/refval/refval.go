// Package refval computes scenario reference values through an exact-decimal
// path. Floating-point demonstrations need an expected value that was not
// produced by the same lossy arithmetic under test; this package derives it
// with 19-digit decimal arithmetic and hands back the nearest float64.
//
// Inputs are interpreted as the decimal literals they came from in
// configuration (0.1 means one tenth, not the float64 approximation of it).
package refval

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Difference returns the exact decimal difference a - b.
func Difference(a, b float64) (float64, error) {
	da, err := decimal.NewFromFloat64(a)
	if err != nil {
		return 0, fmt.Errorf("invalid minuend %v: %w", a, err)
	}
	db, err := decimal.NewFromFloat64(b)
	if err != nil {
		return 0, fmt.Errorf("invalid subtrahend %v: %w", b, err)
	}
	diff, err := da.Sub(db)
	if err != nil {
		return 0, fmt.Errorf("difference %v - %v: %w", a, b, err)
	}
	return toFloat(diff)
}

// Sum returns the exact decimal sum of terms.
func Sum(terms ...float64) (float64, error) {
	total := decimal.MustNew(0, 0)
	for _, term := range terms {
		d, err := decimal.NewFromFloat64(term)
		if err != nil {
			return 0, fmt.Errorf("invalid term %v: %w", term, err)
		}
		total, err = total.Add(d)
		if err != nil {
			return 0, fmt.Errorf("sum overflow at term %v: %w", term, err)
		}
	}
	return toFloat(total)
}

// ScaledSum returns increment added to itself count times, computed as the
// exact product increment * count.
func ScaledSum(increment float64, count int) (float64, error) {
	if count < 0 {
		return 0, fmt.Errorf("count must not be negative, got %d", count)
	}
	d, err := decimal.NewFromFloat64(increment)
	if err != nil {
		return 0, fmt.Errorf("invalid increment %v: %w", increment, err)
	}
	product, err := d.Mul(decimal.MustNew(int64(count), 0))
	if err != nil {
		return 0, fmt.Errorf("scaled sum %v * %d: %w", increment, count, err)
	}
	return toFloat(product)
}

// SeriesSum returns the exact sum of series applied cycles times.
func SeriesSum(series []float64, cycles int) (float64, error) {
	if cycles < 0 {
		return 0, fmt.Errorf("cycles must not be negative, got %d", cycles)
	}
	cycleTotal := decimal.MustNew(0, 0)
	for _, delta := range series {
		d, err := decimal.NewFromFloat64(delta)
		if err != nil {
			return 0, fmt.Errorf("invalid series value %v: %w", delta, err)
		}
		cycleTotal, err = cycleTotal.Add(d)
		if err != nil {
			return 0, fmt.Errorf("series sum overflow at %v: %w", delta, err)
		}
	}
	total, err := cycleTotal.Mul(decimal.MustNew(int64(cycles), 0))
	if err != nil {
		return 0, fmt.Errorf("series sum over %d cycles: %w", cycles, err)
	}
	return toFloat(total)
}

// CompoundGrowth returns principal * (1 + rate)^periods computed in exact
// decimal arithmetic (the power itself carries 19 significant digits).
func CompoundGrowth(principal, rate float64, periods int) (float64, error) {
	total, err := compoundDecimal(principal, rate, periods)
	if err != nil {
		return 0, err
	}
	return toFloat(total)
}

// CompoundCents returns compound growth quantized to the 1/scale resolution
// with ties rounded away from zero, entirely in decimal arithmetic. It is the
// pure-decimal mirror of the fixed-point cents pipeline.
func CompoundCents(principal, rate float64, periods int, scale int64) (float64, error) {
	if scale <= 0 {
		return 0, fmt.Errorf("scale must be positive, got %d", scale)
	}
	total, err := compoundDecimal(principal, rate, periods)
	if err != nil {
		return 0, err
	}
	quantized, err := quantizeAwayFromZero(total, scale)
	if err != nil {
		return 0, fmt.Errorf("quantizing %s at scale %d: %w", total, scale, err)
	}
	return toFloat(quantized)
}

func compoundDecimal(principal, rate float64, periods int) (decimal.Decimal, error) {
	if periods < 0 {
		return decimal.Decimal{}, fmt.Errorf("periods must not be negative, got %d", periods)
	}
	p, err := decimal.NewFromFloat64(principal)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid principal %v: %w", principal, err)
	}
	r, err := decimal.NewFromFloat64(rate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid rate %v: %w", rate, err)
	}
	growth, err := decimal.MustNew(1, 0).Add(r)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("growth factor for rate %v: %w", rate, err)
	}
	compounded, err := growth.PowInt(periods)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("growth factor %s to the power %d: %w", growth, periods, err)
	}
	total, err := p.Mul(compounded)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("compound growth %v at %v over %d periods: %w", principal, rate, periods, err)
	}
	return total, nil
}

// quantizeAwayFromZero rounds d to the 1/scale resolution with ties away from
// zero. The library's own Round uses half-to-even, so the rule is built from
// Floor and Ceil instead.
func quantizeAwayFromZero(d decimal.Decimal, scale int64) (decimal.Decimal, error) {
	factor := decimal.MustNew(scale, 0)
	units, err := d.Mul(factor)
	if err != nil {
		return decimal.Decimal{}, err
	}

	half := decimal.MustNew(5, 1)
	var rounded decimal.Decimal
	if units.IsNeg() {
		shifted, err := units.Sub(half)
		if err != nil {
			return decimal.Decimal{}, err
		}
		rounded = shifted.Ceil(0)
	} else {
		shifted, err := units.Add(half)
		if err != nil {
			return decimal.Decimal{}, err
		}
		rounded = shifted.Floor(0)
	}

	return rounded.Quo(factor)
}

func toFloat(d decimal.Decimal) (float64, error) {
	f, ok := d.Float64()
	if !ok {
		return 0, fmt.Errorf("decimal %s does not fit in a float64", d)
	}
	return f, nil
}
