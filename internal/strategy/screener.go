package strategy

import (
	"fmt"

	"TrendSentinel/internal/model"
)

// Breakout RSI band, inclusive on both ends.
const (
	BreakoutRSIMin = 55.0
	BreakoutRSIMax = 70.0
)

// Check is the outcome of one breakout rule.
type Check struct {
	Name       string
	Passed     bool
	Commentary string
}

type rule struct {
	name string
	eval func(s *model.TrendSnapshot) (bool, string)
}

// breakoutRules are evaluated in order; a rule whose inputs are absent fails.
var breakoutRules = []rule{
	{"price>SMA50", func(s *model.TrendSnapshot) (bool, string) {
		above, known := s.AboveSMA50()
		return above && known, fmt.Sprintf("%.2f vs %s", s.CurrentPrice, s.SMA50)
	}},
	{"price>SMA200", func(s *model.TrendSnapshot) (bool, string) {
		above, known := s.AboveSMA200()
		return above && known, fmt.Sprintf("%.2f vs %s", s.CurrentPrice, s.SMA200)
	}},
	{"RSI 55-70", func(s *model.TrendSnapshot) (bool, string) {
		rsi, ok := s.RSI14.Get()
		return ok && rsi >= BreakoutRSIMin && rsi <= BreakoutRSIMax, "RSI=" + s.RSI14.String()
	}},
	{"RS>1", func(s *model.TrendSnapshot) (bool, string) {
		return s.RelativeStrength.Greater(model.Some(1)), "RS=" + s.RelativeStrength.String()
	}},
	{"new high", func(s *model.TrendSnapshot) (bool, string) {
		return s.NewHigh, fmt.Sprintf("%v", s.NewHigh)
	}},
	{"volume spike", func(s *model.TrendSnapshot) (bool, string) {
		return s.VolumeSpike, fmt.Sprintf("%v", s.VolumeSpike)
	}},
}

// BreakoutChecks evaluates every breakout rule against s.
func BreakoutChecks(s *model.TrendSnapshot) []Check {
	checks := make([]Check, 0, len(breakoutRules))
	for _, r := range breakoutRules {
		if s == nil {
			checks = append(checks, Check{Name: r.name, Commentary: "no snapshot"})
			continue
		}
		ok, comment := r.eval(s)
		checks = append(checks, Check{Name: r.name, Passed: ok, Commentary: comment})
	}
	return checks
}

// IsBreakout reports whether s passes every breakout rule.
// Missing data never qualifies.
func IsBreakout(s *model.TrendSnapshot) bool {
	if s == nil {
		return false
	}
	for _, r := range breakoutRules {
		if ok, _ := r.eval(s); !ok {
			return false
		}
	}
	return true
}

// ScreenBreakouts keeps the breakout instruments, preserving input order.
func ScreenBreakouts(instruments []model.InstrumentSnapshot) []model.InstrumentSnapshot {
	var out []model.InstrumentSnapshot
	for _, in := range instruments {
		if IsBreakout(in.Snapshot) {
			out = append(out, in)
		}
	}
	return out
}
