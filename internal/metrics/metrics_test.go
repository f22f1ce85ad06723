package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ScansTotal.Inc()
	m.SymbolFailures.WithLabelValues(ReasonFetch).Add(2)
	m.Breakouts.Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SymbolFailures.WithLabelValues(ReasonFetch)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Breakouts))

	n, err := testutil.GatherAndCount(reg, "trendsentinel_scans_total", "trendsentinel_symbol_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		a := NewMetrics(nil)
		b := NewMetrics(nil)
		a.ScansTotal.Inc()
		b.ScansTotal.Inc()
	})
}
