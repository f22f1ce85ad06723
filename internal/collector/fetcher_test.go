package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooFixture = `{"chart":{"result":[{
  "meta":{"gmtoffset":-14400},
  "timestamp":[1704205800,1704292200,1704378600,1704389000,1704465000],
  "indicators":{"quote":[{
    "open":[10,11,12,12.5,null],
    "high":[10.5,11.5,12.5,13,null],
    "low":[9.5,10.5,11.5,12,null],
    "close":[10.2,11.2,11.9,12.8,null],
    "volume":[1000,2000,2500,3000,null]
  }]}
}],"error":null}}`

// The second session has a close but no low, high or volume.
const yahooPartialFixture = `{"chart":{"result":[{
  "meta":{"gmtoffset":0},
  "timestamp":[1704205800,1704292200],
  "indicators":{"quote":[{
    "open":[10,11],
    "high":[10.5,null],
    "low":[9.5,null],
    "close":[10.2,11],
    "volume":[1000,null]
  }]}
}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		_, _ = w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "SPX", 730)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, "2y", gotRange)

	// The null bar is skipped and the two bars of Jan 4 collapse to the later one.
	require.Len(t, bars, 3)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), bars[1].Time)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), bars[2].Time)
	assert.Equal(t, 12.8, bars[2].Close)
	assert.Equal(t, 3000.0, bars[2].Volume)
}

func TestYahooFetcher_SkipsPartialBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(yahooPartialFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 30)
	require.NoError(t, err)

	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 9.5, bars[0].Low)
	for _, b := range bars {
		assert.NotZero(t, b.Low)
		assert.NotZero(t, b.Volume)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "ZZZZ", 30)
	assert.ErrorContains(t, err, "delisted")
}

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"timestamp":1704326400,"open":2,"high":2,"low":2,"close":2,"volume":20},
			{"timestamp":1704240000,"open":1,"high":1,"low":1,"close":1,"volume":10}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL+"/", "secret", "")
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 365)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 1.0, bars[0].Close)
}

func TestRESTFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchDailyBars(context.Background(), "AAPL", 10)
	assert.ErrorContains(t, err, "status 502")
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1mo", yahooRange(10))
	assert.Equal(t, "1y", yahooRange(365))
	assert.Equal(t, "5y", yahooRange(1000))
	assert.Equal(t, "10y", yahooRange(5000))
}

func TestTrimDays(t *testing.T) {
	bars := risingBars(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 30, 1, 1)
	trimmed := trimDays(bars, 7)
	last := bars[len(bars)-1].Time
	for _, b := range trimmed {
		assert.True(t, b.Time.After(last.AddDate(0, 0, -7)))
	}
	assert.Equal(t, 5, len(trimmed))
}
