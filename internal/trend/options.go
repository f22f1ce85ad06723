package trend

import (
	"time"

	"TrendSentinel/internal/calculator"
)

const (
	DefaultRangeDays         = 364
	DefaultRangeMinBars      = 52
	DefaultVolumeWindow      = 10
	DefaultVolumeSpikeFactor = 1.5
)

// Options tunes the snapshot builder. Zero fields take their defaults.
type Options struct {
	// WeekEnding is the weekday that closes a weekly bar.
	WeekEnding time.Weekday
	// RelativeStrengthMonths is the lookback for relative strength, independent of the SMA windows.
	RelativeStrengthMonths int
	// RangeDays is the calendar window for new highs and lows.
	RangeDays int
	// RangeMinBars is the minimum daily history for high/low flags to be evaluated at all.
	RangeMinBars int
	// VolumeWindow is the number of bars before the latest used for the mean volume.
	VolumeWindow int
	// VolumeSpikeFactor multiplies the mean volume to form the spike threshold.
	VolumeSpikeFactor float64

	weekEndingSet bool
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		WeekEnding:             calculator.DefaultWeekEnding,
		RelativeStrengthMonths: calculator.DefaultRelativeStrengthMonths,
		RangeDays:              DefaultRangeDays,
		RangeMinBars:           DefaultRangeMinBars,
		VolumeWindow:           DefaultVolumeWindow,
		VolumeSpikeFactor:      DefaultVolumeSpikeFactor,
		weekEndingSet:          true,
	}
}

// WithWeekEnding returns a copy of o using d as the weekly period end.
func (o Options) WithWeekEnding(d time.Weekday) Options {
	o.WeekEnding = d
	o.weekEndingSet = true
	return o
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	// time.Sunday is the zero Weekday, so an explicit Sunday needs WithWeekEnding.
	if !o.weekEndingSet && o.WeekEnding == time.Sunday {
		o.WeekEnding = def.WeekEnding
	}
	o.weekEndingSet = true
	if o.RelativeStrengthMonths <= 0 {
		o.RelativeStrengthMonths = def.RelativeStrengthMonths
	}
	if o.RangeDays <= 0 {
		o.RangeDays = def.RangeDays
	}
	if o.RangeMinBars <= 0 {
		o.RangeMinBars = def.RangeMinBars
	}
	if o.VolumeWindow <= 0 {
		o.VolumeWindow = def.VolumeWindow
	}
	if o.VolumeSpikeFactor <= 0 {
		o.VolumeSpikeFactor = def.VolumeSpikeFactor
	}
	return o
}
