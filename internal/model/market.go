package model

import (
	"fmt"
	"math"
	"time"
)

// PriceBar represents a single daily (or resampled) OHLCV bar.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ascending, timestamp-unique sequence of bars.
// It can only be built through NewPriceSeries; the zero value is the empty series.
type PriceSeries struct {
	bars []PriceBar
}

// NewPriceSeries validates bars and wraps them in a PriceSeries.
// Timestamps must be strictly increasing and every price and volume finite and non-negative.
func NewPriceSeries(bars []PriceBar) (PriceSeries, error) {
	for i, b := range bars {
		if reason := checkBar(b); reason != "" {
			return PriceSeries{}, &InvalidSeriesError{Index: i, Reason: reason}
		}
		if i == 0 {
			continue
		}
		prev := bars[i-1].Time
		switch {
		case b.Time.Equal(prev):
			return PriceSeries{}, &InvalidSeriesError{Index: i, Reason: fmt.Sprintf("duplicate timestamp %s", b.Time.Format(time.RFC3339))}
		case b.Time.Before(prev):
			return PriceSeries{}, &InvalidSeriesError{Index: i, Reason: fmt.Sprintf("timestamp %s before %s", b.Time.Format(time.RFC3339), prev.Format(time.RFC3339))}
		}
	}
	cp := make([]PriceBar, len(bars))
	copy(cp, bars)
	return PriceSeries{bars: cp}, nil
}

func checkBar(b PriceBar) string {
	fields := [...]struct {
		name string
		v    float64
	}{
		{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Sprintf("%s is not finite", f.name)
		}
		if f.v < 0 {
			return fmt.Sprintf("negative %s %g", f.name, f.v)
		}
	}
	return ""
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.bars) }

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool { return len(s.bars) == 0 }

// Bar returns the i-th bar.
func (s PriceSeries) Bar(i int) PriceBar { return s.bars[i] }

// Last returns the most recent bar. It panics on an empty series.
func (s PriceSeries) Last() PriceBar { return s.bars[len(s.bars)-1] }

// Bars returns a copy of the underlying bars.
func (s PriceSeries) Bars() []PriceBar {
	cp := make([]PriceBar, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// Until returns the bars with Time <= t.
func (s PriceSeries) Until(t time.Time) PriceSeries {
	n := len(s.bars)
	for n > 0 && s.bars[n-1].Time.After(t) {
		n--
	}
	return PriceSeries{bars: s.bars[:n]}
}

// Since returns the bars with Time > t.
func (s PriceSeries) Since(t time.Time) PriceSeries {
	i := 0
	for i < len(s.bars) && !s.bars[i].Time.After(t) {
		i++
	}
	return PriceSeries{bars: s.bars[i:]}
}

// Tail returns the last n bars (or all of them when fewer exist).
func (s PriceSeries) Tail(n int) PriceSeries {
	if n >= len(s.bars) {
		return s
	}
	if n <= 0 {
		return PriceSeries{}
	}
	return PriceSeries{bars: s.bars[len(s.bars)-n:]}
}

func (s PriceSeries) Closes() []float64  { return s.column(func(b PriceBar) float64 { return b.Close }) }
func (s PriceSeries) Highs() []float64   { return s.column(func(b PriceBar) float64 { return b.High }) }
func (s PriceSeries) Lows() []float64    { return s.column(func(b PriceBar) float64 { return b.Low }) }
func (s PriceSeries) Volumes() []float64 { return s.column(func(b PriceBar) float64 { return b.Volume }) }

func (s PriceSeries) column(f func(PriceBar) float64) []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = f(b)
	}
	return out
}
