package calculator

import (
	"fmt"
	"strings"
	"time"

	"TrendSentinel/internal/model"
)

// DefaultWeekEnding is the weekday that closes a weekly bucket.
const DefaultWeekEnding = time.Friday

// ResampleWeekly aggregates daily bars into calendar weeks ending on weekEnding.
// Each output bar is stamped with midnight of its period-end date. Weeks without bars are omitted.
func ResampleWeekly(daily model.PriceSeries, weekEnding time.Weekday) model.PriceSeries {
	if daily.Empty() {
		return model.PriceSeries{}
	}
	var weekly []model.PriceBar
	var week model.PriceBar
	var weekKey time.Time

	for i := 0; i < daily.Len(); i++ {
		d := daily.Bar(i)
		key := periodEnd(d.Time, weekEnding)

		if i == 0 || key.After(weekKey) {
			if i > 0 {
				weekly = append(weekly, week)
			}
			weekKey = key
			week = model.PriceBar{Time: key, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}
			continue
		}

		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	weekly = append(weekly, week)

	// Bucket labels strictly increase; only a summed volume overflowing to +Inf can fail here.
	series, err := model.NewPriceSeries(weekly)
	if err != nil {
		return model.PriceSeries{}
	}
	return series
}

// periodEnd returns midnight of the first weekEnding on or after t's calendar date.
func periodEnd(t time.Time, weekEnding time.Weekday) time.Time {
	y, m, d := t.Date()
	days := (int(weekEnding) - int(t.Weekday()) + 7) % 7
	return time.Date(y, m, d+days, 0, 0, 0, 0, t.Location())
}

// ParseWeekday parses full or three-letter English weekday names, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
