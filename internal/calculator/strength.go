package calculator

import (
	"errors"
	"time"

	"TrendSentinel/internal/model"
)

// DefaultRelativeStrengthMonths is the lookback used for relative strength vs. the benchmark.
const DefaultRelativeStrengthMonths = 6

var errDivisionUndefined = errors.New("division undefined")

// RelativeStrength compares the mean periodic return of instrument to that of benchmark.
// Both series are first cut to the lookbackMonths window ending at asOf.
// The result is absent when either window is empty or the benchmark mean return is zero.
func RelativeStrength(instrument, benchmark model.PriceSeries, asOf time.Time, lookbackMonths int) model.OptFloat {
	start := asOf.AddDate(0, -lookbackMonths, 0)
	inst := instrument.Until(asOf).Since(start)
	bench := benchmark.Until(asOf).Since(start)
	if inst.Empty() || bench.Empty() {
		return model.None()
	}

	instMean := MeanReturn(inst)
	benchMean := MeanReturn(bench)
	ratio, err := divide(instMean, benchMean)
	if err != nil {
		return model.None()
	}
	return ratio
}

// MeanReturn is the mean of close-to-close percentage returns.
// Returns whose previous close is zero are skipped; absent when no return is defined.
func MeanReturn(series model.PriceSeries) model.OptFloat {
	closes := series.Closes()
	var sum float64
	var n int
	for i := 1; i < len(closes); i++ {
		r, err := divide(model.Some(closes[i]-closes[i-1]), model.Some(closes[i-1]))
		if err != nil {
			continue
		}
		v, _ := r.Get()
		sum += v
		n++
	}
	if n == 0 {
		return model.None()
	}
	return model.Some(sum / float64(n))
}

func divide(num, den model.OptFloat) (model.OptFloat, error) {
	a, okA := num.Get()
	b, okB := den.Get()
	if !okA || !okB || b == 0 {
		return model.None(), errDivisionUndefined
	}
	return model.Some(a / b), nil
}
