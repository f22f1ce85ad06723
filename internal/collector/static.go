package collector

import (
	"context"
	"fmt"

	"TrendSentinel/internal/model"
)

// StaticFetcher serves fixed in-memory bars. It backs tests and offline replays.
type StaticFetcher struct {
	Bars map[string][]model.PriceBar
	Errs map[string]error
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errs[symbol]; ok {
		return nil, err
	}
	bars, ok := f.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("static: no data for %s", symbol)
	}
	out := make([]model.PriceBar, len(bars))
	copy(out, bars)
	return trimDays(out, days), nil
}
