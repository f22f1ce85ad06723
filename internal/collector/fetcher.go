package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TrendSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns roughly the last days calendar days of daily bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// newHTTPClient builds the shared HTTP client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// sortBars orders bars chronologically in place.
func sortBars(bars []model.PriceBar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
}

// trimDays keeps the bars within days calendar days of the last bar.
func trimDays(bars []model.PriceBar, days int) []model.PriceBar {
	if days <= 0 || len(bars) == 0 {
		return bars
	}
	cutoff := bars[len(bars)-1].Time.AddDate(0, 0, -days)
	i := 0
	for i < len(bars) && !bars[i].Time.After(cutoff) {
		i++
	}
	return bars[i:]
}
