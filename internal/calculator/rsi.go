package calculator

import "TrendSentinel/internal/model"

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the relative strength index series over closes.
// Gains and losses are averaged with a trailing simple mean of period changes, so the first
// value appears at index period. A zero average loss yields 100.
func RSI(closes []float64, period int) []model.OptFloat {
	out := make([]model.OptFloat, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(closes); i++ {
		avgGain := Mean(gains[i-period+1 : i+1])
		avgLoss := Mean(losses[i-period+1 : i+1])
		out[i] = model.Some(rsiValue(avgGain, avgLoss))
	}
	return out
}

// LastRSI returns the latest RSI value, absent when fewer than period+1 closes exist.
func LastRSI(closes []float64, period int) model.OptFloat {
	if period <= 0 || len(closes) < period+1 {
		return model.None()
	}
	series := RSI(closes[len(closes)-period-1:], period)
	return series[len(series)-1]
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
