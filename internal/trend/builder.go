// Package trend assembles point-in-time indicator snapshots from already-fetched price series.
// It performs no I/O and holds no state.
package trend

import (
	"fmt"
	"time"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

const (
	smaShort       = 50
	smaLong        = 200
	weeklyEWMASpan = 30
)

// BuildFromBars validates both raw bar slices and then calls Build.
// Validation failures are reported as *model.InvalidSeriesError before any computation.
func BuildFromBars(daily, benchmark []model.PriceBar, asOf time.Time, opts Options) (*model.TrendSnapshot, error) {
	ds, err := model.NewPriceSeries(daily)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	bs, err := model.NewPriceSeries(benchmark)
	if err != nil {
		return nil, fmt.Errorf("benchmark series: %w", err)
	}
	return Build(ds, bs, asOf, opts)
}

// Build computes the trend snapshot of daily as of asOf. A zero asOf means the latest bar.
// Bars after asOf are ignored, so the same inputs always give the same snapshot.
func Build(daily, benchmark model.PriceSeries, asOf time.Time, opts Options) (*model.TrendSnapshot, error) {
	opts = opts.withDefaults()

	if !asOf.IsZero() {
		daily = daily.Until(asOf)
	}
	if daily.Empty() {
		return nil, model.ErrInsufficientData
	}
	latest := daily.Last()
	if asOf.IsZero() {
		asOf = latest.Time
	}

	weekly := calculator.ResampleWeekly(daily, opts.WeekEnding)
	closes := daily.Closes()
	weeklyCloses := weekly.Closes()

	snap := &model.TrendSnapshot{
		AsOf:         asOf,
		CurrentPrice: latest.Close,

		SMA50:  calculator.LastSMA(closes, smaShort),
		SMA200: calculator.LastSMA(closes, smaLong),
		RSI14:  calculator.LastRSI(closes, calculator.DefaultRSIPeriod),

		SMA50Week:  calculator.LastSMA(weeklyCloses, smaShort),
		SMA200Week: calculator.LastSMA(weeklyCloses, smaLong),
		WMA30Week:  calculator.LastEWMA(weeklyCloses, weeklyEWMASpan),

		RelativeStrength: calculator.RelativeStrength(daily, benchmark, asOf, opts.RelativeStrengthMonths),
	}
	snap.NewHigh, snap.NewLow = extremes(daily, asOf, opts)
	snap.VolumeSpike = volumeSpike(daily, opts)
	return snap, nil
}

// extremes compares the latest close with the highs and lows of the trailing calendar window.
// The window includes the latest bar.
func extremes(daily model.PriceSeries, asOf time.Time, opts Options) (newHigh, newLow bool) {
	if daily.Len() < opts.RangeMinBars {
		return false, false
	}
	window := daily.Since(asOf.AddDate(0, 0, -opts.RangeDays))
	if window.Empty() {
		return false, false
	}
	last := daily.Last().Close
	return last >= calculator.Max(window.Highs()), last <= calculator.Min(window.Lows())
}

// volumeSpike compares the latest volume with the mean of the VolumeWindow bars before it.
func volumeSpike(daily model.PriceSeries, opts Options) bool {
	n := daily.Len()
	if n < opts.VolumeWindow+1 {
		return false
	}
	volumes := daily.Volumes()
	avg := calculator.Mean(volumes[n-1-opts.VolumeWindow : n-1])
	return volumes[n-1] > opts.VolumeSpikeFactor*avg
}
