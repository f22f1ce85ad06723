package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

// ScanSummary is the header data of a scan report.
type ScanSummary struct {
	Date      time.Time
	Symbols   int
	Snapshots int
	Failures  []string
}

// FormatScanReport formats the post-scan Telegram message: summary, breakouts and top sectors.
func FormatScanReport(sum ScanSummary, breakouts []model.InstrumentSnapshot, sectors []model.SectorAggregate) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>TrendSentinel 扫描报告</b> | %s\n\n", sum.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("扫描标的: %d | 成功: %d | 跳过: %d\n", sum.Symbols, sum.Snapshots, len(sum.Failures)))
	if len(sum.Failures) > 0 {
		b.WriteString(fmt.Sprintf("跳过列表: %s\n", html.EscapeString(strings.Join(sum.Failures, ", "))))
	}
	b.WriteString("\n")

	b.WriteString(FormatBreakouts(breakouts))
	b.WriteString("\n")
	b.WriteString(FormatRanking("🏭 板块强度排名", sectors, 5))
	return b.String()
}

// FormatBreakouts lists breakout candidates with their key readings.
func FormatBreakouts(breakouts []model.InstrumentSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 <b>突破候选</b> (%d)\n", len(breakouts)))
	if len(breakouts) == 0 {
		b.WriteString("  本次无符合条件的标的\n")
		return b.String()
	}
	for _, in := range breakouts {
		s := in.Snapshot
		b.WriteString(fmt.Sprintf("• <b>%s</b> %.2f | %s\n",
			html.EscapeString(in.Symbol), s.CurrentPrice, html.EscapeString(in.Classification.Industry)))
		b.WriteString(fmt.Sprintf("  RSI %s | RS %s | SMA50 %s | SMA200 %s\n",
			s.RSI14, s.RelativeStrength, s.SMA50, s.SMA200))
	}
	return b.String()
}

// FormatChecks shows every breakout rule for one instrument, for the /check command.
func FormatChecks(in model.InstrumentSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>%s</b> 突破条件\n\n", html.EscapeString(in.Symbol)))
	for _, c := range strategy.BreakoutChecks(in.Snapshot) {
		mark := "❌"
		if c.Passed {
			mark = "✅"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", mark, html.EscapeString(c.Name), html.EscapeString(c.Commentary)))
	}
	if in.Snapshot != nil {
		b.WriteString(fmt.Sprintf("\n数据日期: %s", in.Snapshot.AsOf.Format("2006-01-02")))
	}
	return b.String()
}

// FormatRanking renders the first limit aggregates of a ranking. limit <= 0 shows all.
func FormatRanking(title string, aggs []model.SectorAggregate, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", title))
	if len(aggs) == 0 {
		b.WriteString("  暂无数据\n")
		return b.String()
	}
	if limit > 0 && len(aggs) > limit {
		aggs = aggs[:limit]
	}
	for i, a := range aggs {
		b.WriteString(fmt.Sprintf("%d. %s  RS %s | &gt;SMA50 %d/%d | &gt;SMA200 %d/%d\n",
			i+1, html.EscapeString(a.Key.String()), a.AvgRelativeStrength,
			a.CountAboveSMA50, a.TotalInstruments, a.CountAboveSMA200, a.TotalInstruments))
	}
	return b.String()
}
