package catalog

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/iwvelando/floatcheck/pkg/constants"
	"github.com/iwvelando/floatcheck/pkg/fixedpoint"
	"github.com/iwvelando/floatcheck/pkg/refval"
	"github.com/iwvelando/floatcheck/pkg/scenario"
	"github.com/iwvelando/floatcheck/pkg/stabilize"
)

// buildCancellation32 subtracts two nearly equal float32 values, the classic
// catastrophic cancellation probe. Params: minuend, subtrahend.
func buildCancellation32(spec Spec) (scenario.Definition, error) {
	minuend, err := spec.param("minuend")
	if err != nil {
		return scenario.Definition{}, err
	}
	subtrahend, err := spec.param("subtrahend")
	if err != nil {
		return scenario.Definition{}, err
	}
	a := float32(minuend)
	b := float32(subtrahend)
	compute := func() (scenario.Value, error) {
		return scenario.F32(a - b), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.Difference(minuend, subtrahend)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildCancellation64 is the float64 variant of the cancellation probe.
func buildCancellation64(spec Spec) (scenario.Definition, error) {
	minuend, err := spec.param("minuend")
	if err != nil {
		return scenario.Definition{}, err
	}
	subtrahend, err := spec.param("subtrahend")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		return scenario.F64(minuend - subtrahend), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.Difference(minuend, subtrahend)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildAccumulation32 sums a small float32 increment many times so the
// per-addition rounding error piles up. Params: increment, count.
func buildAccumulation32(spec Spec) (scenario.Definition, error) {
	increment, err := spec.param("increment")
	if err != nil {
		return scenario.Definition{}, err
	}
	count, err := spec.intParam("count")
	if err != nil {
		return scenario.Definition{}, err
	}
	inc := float32(increment)
	compute := func() (scenario.Value, error) {
		var sum float32
		for i := 0; i < count; i++ {
			sum += inc
		}
		return scenario.F32(sum), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.ScaledSum(increment, count)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildAccumulation64 is the float64 variant of the accumulation probe.
func buildAccumulation64(spec Spec) (scenario.Definition, error) {
	increment, err := spec.param("increment")
	if err != nil {
		return scenario.Definition{}, err
	}
	count, err := spec.intParam("count")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		var sum float64
		for i := 0; i < count; i++ {
			sum += increment
		}
		return scenario.F64(sum), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.ScaledSum(increment, count)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildClassicSum adds two float64 values, most famously 0.1 + 0.2.
// Params: a, b.
func buildClassicSum(spec Spec) (scenario.Definition, error) {
	a, err := spec.param("a")
	if err != nil {
		return scenario.Definition{}, err
	}
	b, err := spec.param("b")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		return scenario.F64(a + b), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.Sum(a, b)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildCompound grows a principal by (1+rate)^periods in one math.Pow call,
// optionally stabilized. Params: principal, rate, periods.
func buildCompound(spec Spec) (scenario.Definition, error) {
	principal, rate, periods, err := compoundParams(spec)
	if err != nil {
		return scenario.Definition{}, err
	}
	digits := spec.StabilizationDigits
	compute := func() (scenario.Value, error) {
		result := principal * math.Pow(1+rate, float64(periods))
		if digits != nil {
			result = stabilize.Stabilize(result, *digits)
		}
		return scenario.F64(result), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.CompoundGrowth(principal, rate, periods)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildCompoundIterative grows the principal one period at a time, which
// accumulates rounding differently than the closed-form power. Params:
// principal, rate, periods.
func buildCompoundIterative(spec Spec) (scenario.Definition, error) {
	principal, rate, periods, err := compoundParams(spec)
	if err != nil {
		return scenario.Definition{}, err
	}
	digits := spec.StabilizationDigits
	growth := 1 + rate
	compute := func() (scenario.Value, error) {
		result := principal
		for i := 0; i < periods; i++ {
			result *= growth
		}
		if digits != nil {
			result = stabilize.Stabilize(result, *digits)
		}
		return scenario.F64(result), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.CompoundGrowth(principal, rate, periods)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildCompoundCents runs the compound growth result through the fixed-point
// pipeline: optional stabilization, then quantization at the configured
// scale, then back to a float for comparison. The derived reference follows
// the identical pipeline so both sides share one rounding rule. Params:
// principal, rate, periods; Scale is required.
func buildCompoundCents(spec Spec) (scenario.Definition, error) {
	principal, rate, periods, err := compoundParams(spec)
	if err != nil {
		return scenario.Definition{}, err
	}
	scale, err := spec.scaleParam()
	if err != nil {
		return scenario.Definition{}, err
	}
	digits := spec.StabilizationDigits
	quantize := func(value float64) (float64, error) {
		if digits != nil {
			value = stabilize.Stabilize(value, *digits)
		}
		fixed, err := fixedpoint.ToFixed(value, scale)
		if err != nil {
			return 0, err
		}
		return fixedpoint.FromFixed[float64](fixed, scale), nil
	}
	compute := func() (scenario.Value, error) {
		result, err := quantize(principal * math.Pow(1+rate, float64(periods)))
		if err != nil {
			return scenario.Value{}, err
		}
		return scenario.F64(result), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		exact, err := refval.CompoundGrowth(principal, rate, periods)
		if err != nil {
			return 0, err
		}
		return quantize(exact)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildPower raises a base to an arbitrary exponent. Irrational exponents
// have no exact decimal reference, so one must be pinned in configuration.
// Params: base, exponent.
func buildPower(spec Spec) (scenario.Definition, error) {
	base, err := spec.param("base")
	if err != nil {
		return scenario.Definition{}, err
	}
	exponent, err := spec.param("exponent")
	if err != nil {
		return scenario.Definition{}, err
	}
	digits := spec.StabilizationDigits
	compute := func() (scenario.Value, error) {
		result := math.Pow(base, exponent)
		if digits != nil {
			result = stabilize.Stabilize(result, *digits)
		}
		return scenario.F64(result), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildDecay models exponential decay initial * e^(-rate*time). Params:
// initial, rate, time.
func buildDecay(spec Spec) (scenario.Definition, error) {
	initial, err := spec.param("initial")
	if err != nil {
		return scenario.Definition{}, err
	}
	rate, err := spec.param("rate")
	if err != nil {
		return scenario.Definition{}, err
	}
	elapsed, err := spec.param("time")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		return scenario.F64(initial * math.Exp(-rate*elapsed)), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildLiquidityPool prices a constant-product pool after a trade: with
// k = reserveBase * reserveQuote the post-trade price is k / newBase^2.
// Params: reserveBase, reserveQuote, tradeAmount.
func buildLiquidityPool(spec Spec) (scenario.Definition, error) {
	reserveBase, err := spec.param("reserveBase")
	if err != nil {
		return scenario.Definition{}, err
	}
	reserveQuote, err := spec.param("reserveQuote")
	if err != nil {
		return scenario.Definition{}, err
	}
	tradeAmount, err := spec.param("tradeAmount")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		invariant := reserveBase * reserveQuote
		newBase := reserveBase + tradeAmount
		if newBase == 0 {
			return scenario.Value{}, fmt.Errorf("trade drains the base reserve")
		}
		newQuote := invariant / newBase
		return scenario.F64(newQuote / newBase), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildOracleMedian aggregates a series of price feeds by median, the way
// an oracle collapses venue quotes into one answer. Series is required.
func buildOracleMedian(spec Spec) (scenario.Definition, error) {
	series, err := spec.seriesInput()
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		data := make(stats.Float64Data, len(series))
		copy(data, series)
		median, err := stats.Median(data)
		if err != nil {
			return scenario.Value{}, fmt.Errorf("median aggregation failed: %w", err)
		}
		return scenario.F64(median), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildLedgerSum replays a series of signed deltas over a number of cycles,
// the settlement-ledger pattern. Series is required; Params: cycles.
func buildLedgerSum(spec Spec) (scenario.Definition, error) {
	series, err := spec.seriesInput()
	if err != nil {
		return scenario.Definition{}, err
	}
	cycles, err := spec.intParam("cycles")
	if err != nil {
		return scenario.Definition{}, err
	}
	compute := func() (scenario.Value, error) {
		var sum float64
		for c := 0; c < cycles; c++ {
			for _, delta := range series {
				sum += delta
			}
		}
		return scenario.F64(sum), nil
	}
	reference, err := spec.reference(func() (float64, error) {
		return refval.SeriesSum(series, cycles)
	})
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildPrecisionLimit32 adds a small delta to 2^24, the largest integer
// float32 tracks exactly, and subtracts the base back out. Deltas below the
// representable step vanish, so the expected observation is a policy choice
// and the reference must be explicit. Params: delta.
func buildPrecisionLimit32(spec Spec) (scenario.Definition, error) {
	delta, err := spec.param("delta")
	if err != nil {
		return scenario.Definition{}, err
	}
	base := float32(constants.Float32ExactIntegerLimit)
	d := float32(delta)
	compute := func() (scenario.Value, error) {
		return scenario.F32((base + d) - base), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

// buildPrecisionLimit64 is the float64 variant at 2^53. Params: delta.
func buildPrecisionLimit64(spec Spec) (scenario.Definition, error) {
	delta, err := spec.param("delta")
	if err != nil {
		return scenario.Definition{}, err
	}
	base := float64(constants.Float64ExactIntegerLimit)
	compute := func() (scenario.Value, error) {
		return scenario.F64((base + delta) - base), nil
	}
	reference, err := spec.reference(nil)
	if err != nil {
		return scenario.Definition{}, err
	}
	return spec.definition(compute, reference), nil
}

func compoundParams(spec Spec) (principal, rate float64, periods int, err error) {
	principal, err = spec.param("principal")
	if err != nil {
		return 0, 0, 0, err
	}
	rate, err = spec.param("rate")
	if err != nil {
		return 0, 0, 0, err
	}
	periods, err = spec.intParam("periods")
	if err != nil {
		return 0, 0, 0, err
	}
	return principal, rate, periods, nil
}
