package strategy

import (
	"sort"

	"TrendSentinel/internal/model"
)

// GroupEntry assigns one snapshot to a ranking group.
type GroupEntry struct {
	Key      model.GroupKey
	Snapshot *model.TrendSnapshot
}

type groupAcc struct {
	agg   model.SectorAggregate
	rsSum float64
	rsN   int
}

// RankByGroup aggregates entries per group and orders groups by mean relative strength,
// strongest first. Groups without any relative strength value come last with an absent mean.
// Ties are broken by key so the order is deterministic.
func RankByGroup(entries []GroupEntry) []model.SectorAggregate {
	groups := make(map[model.GroupKey]*groupAcc)
	for _, e := range entries {
		acc, ok := groups[e.Key]
		if !ok {
			acc = &groupAcc{agg: model.SectorAggregate{Key: e.Key}}
			groups[e.Key] = acc
		}
		acc.agg.TotalInstruments++
		if e.Snapshot == nil {
			continue
		}
		if rs, ok := e.Snapshot.RelativeStrength.Get(); ok {
			acc.rsSum += rs
			acc.rsN++
		}
		if above, known := e.Snapshot.AboveSMA50(); known && above {
			acc.agg.CountAboveSMA50++
		}
		if above, known := e.Snapshot.AboveSMA200(); known && above {
			acc.agg.CountAboveSMA200++
		}
	}

	out := make([]model.SectorAggregate, 0, len(groups))
	for _, acc := range groups {
		if acc.rsN > 0 {
			acc.agg.AvgRelativeStrength = model.Some(acc.rsSum / float64(acc.rsN))
		}
		out = append(out, acc.agg)
	}
	sort.Slice(out, func(i, j int) bool { return rankLess(out[i], out[j]) })
	return out
}

func rankLess(a, b model.SectorAggregate) bool {
	ra, okA := a.AvgRelativeStrength.Get()
	rb, okB := b.AvgRelativeStrength.Get()
	switch {
	case okA != okB:
		return okA
	case okA && ra != rb:
		return ra > rb
	case a.Key.Sector != b.Key.Sector:
		return a.Key.Sector < b.Key.Sector
	default:
		return a.Key.Industry < b.Key.Industry
	}
}

// SectorKey groups by sector only.
func SectorKey(c model.Classification) model.GroupKey {
	c = c.Normalized()
	return model.GroupKey{Sector: c.Sector}
}

// IndustryKey groups by (industry, sector).
func IndustryKey(c model.Classification) model.GroupKey {
	c = c.Normalized()
	return model.GroupKey{Sector: c.Sector, Industry: c.Industry}
}

// RankSectors ranks broad sectors.
func RankSectors(instruments []model.InstrumentSnapshot) []model.SectorAggregate {
	return RankByGroup(groupEntries(instruments, SectorKey))
}

// RankIndustries ranks industry groups, the finer-grained variant of RankSectors.
func RankIndustries(instruments []model.InstrumentSnapshot) []model.SectorAggregate {
	return RankByGroup(groupEntries(instruments, IndustryKey))
}

func groupEntries(instruments []model.InstrumentSnapshot, key func(model.Classification) model.GroupKey) []GroupEntry {
	entries := make([]GroupEntry, len(instruments))
	for i, in := range instruments {
		entries[i] = GroupEntry{Key: key(in.Classification), Snapshot: in.Snapshot}
	}
	return entries
}
