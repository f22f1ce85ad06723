package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TrendSentinel/internal/model"
)

// dailySeries builds one bar per weekday starting at start, with the given closes.
func dailySeries(t *testing.T, start time.Time, closes []float64) model.PriceSeries {
	t.Helper()
	bars := make([]model.PriceBar, 0, len(closes))
	day := start
	for _, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		bars = append(bars, model.PriceBar{Time: day, Open: c, High: c + 1, Low: math.Max(c-1, 0), Close: c, Volume: 1000})
		day = day.AddDate(0, 0, 1)
	}
	s, err := model.NewPriceSeries(bars)
	require.NoError(t, err)
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
