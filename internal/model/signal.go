package model

// UnknownGroup is used when a classification provider has no sector or industry for an instrument.
const UnknownGroup = "Unknown"

// Classification is the sector/industry grouping of an instrument.
type Classification struct {
	Sector   string `json:"sector" yaml:"sector"`
	Industry string `json:"industry" yaml:"industry"`
}

// Normalized replaces blank fields with UnknownGroup.
func (c Classification) Normalized() Classification {
	if c.Sector == "" {
		c.Sector = UnknownGroup
	}
	if c.Industry == "" {
		c.Industry = UnknownGroup
	}
	return c
}

// GroupKey identifies a ranking group. Industry is empty for sector-level rankings.
type GroupKey struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry,omitempty"`
}

func (k GroupKey) String() string {
	if k.Industry == "" {
		return k.Sector
	}
	return k.Industry + " (" + k.Sector + ")"
}

// SectorAggregate is derived on demand from the current set of snapshots of a group.
type SectorAggregate struct {
	Key                 GroupKey `json:"key"`
	AvgRelativeStrength OptFloat `json:"avg_relative_strength"`
	CountAboveSMA50     int      `json:"count_above_sma50"`
	CountAboveSMA200    int      `json:"count_above_sma200"`
	TotalInstruments    int      `json:"total_instruments"`
}

// InstrumentSnapshot pairs an instrument with its classification and latest snapshot.
type InstrumentSnapshot struct {
	Symbol         string         `json:"symbol"`
	Classification Classification `json:"classification"`
	Snapshot       *TrendSnapshot `json:"snapshot"`
}
