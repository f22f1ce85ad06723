package calculator

import "TrendSentinel/internal/model"

// SMA returns the simple moving average series of values over window.
// Positions with fewer than window values so far are absent; partial windows are never averaged.
func SMA(values []float64, window int) []model.OptFloat {
	out := make([]model.OptFloat, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = model.Some(Mean(values[i-window+1 : i+1]))
	}
	return out
}

// LastSMA returns the latest SMA value, absent when fewer than window values exist.
func LastSMA(values []float64, window int) model.OptFloat {
	if window <= 0 || len(values) < window {
		return model.None()
	}
	return model.Some(Mean(values[len(values)-window:]))
}

// EWMA returns the exponentially weighted moving average with alpha = 2/(span+1).
// The average is seeded from the first observation with no bias correction.
func EWMA(values []float64, span int) []float64 {
	if span <= 0 || len(values) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// LastEWMA returns the latest EWMA value, absent for an empty input.
func LastEWMA(values []float64, span int) model.OptFloat {
	e := EWMA(values, span)
	if len(e) == 0 {
		return model.None()
	}
	return model.Some(e[len(e)-1])
}
