package model

import "time"

// TrendSnapshot holds the indicators of one instrument at one point in time.
// Indicators that need more history than was available are absent.
type TrendSnapshot struct {
	AsOf         time.Time `json:"as_of"`
	CurrentPrice float64   `json:"current_price"`

	SMA50  OptFloat `json:"sma_50"`
	SMA200 OptFloat `json:"sma_200"`
	RSI14  OptFloat `json:"rsi_14"`

	WMA30Week  OptFloat `json:"wma_30_week"`
	SMA50Week  OptFloat `json:"sma_50_week"`
	SMA200Week OptFloat `json:"sma_200_week"`

	RelativeStrength OptFloat `json:"relative_strength_vs_benchmark"`

	NewHigh     bool `json:"new_high"`
	NewLow      bool `json:"new_low"`
	VolumeSpike bool `json:"volume_spike"`
}

// AboveSMA50 reports price > SMA50. The second result is false when SMA50 is absent.
func (s *TrendSnapshot) AboveSMA50() (above, known bool) {
	return compareAbove(s.CurrentPrice, s.SMA50)
}

// AboveSMA200 reports price > SMA200. The second result is false when SMA200 is absent.
func (s *TrendSnapshot) AboveSMA200() (above, known bool) {
	return compareAbove(s.CurrentPrice, s.SMA200)
}

func compareAbove(price float64, ma OptFloat) (bool, bool) {
	v, ok := ma.Get()
	if !ok {
		return false, false
	}
	return price > v, true
}
