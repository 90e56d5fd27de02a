package report

import (
	"strings"
	"testing"
	"time"

	"github.com/wonny/alpha/internal/contracts"
)

func sampleReport() *contracts.Report {
	rep := contracts.NewReport(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	rep.GeneratedAt = time.Date(2026, 8, 24, 7, 45, 0, 0, time.UTC)
	rep.Recommendations = []contracts.Recommendation{
		{Symbol: "GILD", Universe: "biotech", Entry: 68.2, Target: 76.4, StopLoss: 66.5, RSI: 27.5, VolumeRatio: 2.1, Confidence: 0.78},
	}
	rep.Holdings = []contracts.Holding{
		{Symbol: "OXY", Signal: contracts.SignalExit, Rationale: "SMA breach -7.0% <= -5.0% with weight 15.0% / P&L -3.0%: exit"},
		{Symbol: "NEM", Signal: contracts.SignalHold, Rationale: "no breach, no top-up trigger: hold"},
	}
	rep.Catalysts = []contracts.CatalystEvent{
		{Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), Kind: contracts.EventEarnings, Description: "GILD earnings", Bucket: contracts.BucketToday, Symbols: []string{"GILD"}},
		{Date: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), Kind: contracts.EventEconomic, Description: "CPI release", Bucket: contracts.BucketThisWeek},
	}
	rep.MacroIndicators = []contracts.MacroIndicator{
		{Name: contracts.MacroDollarIndex, Value: 106, Previous: 103, Trend: contracts.TrendStrengthening},
	}
	rep.MetalsAdvice = &contracts.MetalsAdvice{
		Gold:      contracts.MetalCall{Symbol: contracts.MetalGold, Price: 215.4, RSI: 55, Action: contracts.MetalAccumulate},
		Silver:    contracts.MetalCall{Symbol: contracts.MetalSilver, Price: 28.1, RSI: 50, Action: contracts.MetalAccumulate},
		Rationale: "Dollar index strengthening: accumulate.",
	}
	return rep
}

func TestRender_AllSections(t *testing.T) {
	out := NewMarkdownRenderer().Render(sampleReport())

	for _, want := range []string{
		"# Daily Intelligence Digest — 2026-08-24",
		"**Status:** COMPLETE",
		"## Technical Scans",
		"| GILD | biotech |",
		"## Portfolio Alerts",
		"**OXY** `EXIT`",
		"## Catalysts",
		"### TODAY",
		"GILD earnings",
		"### THIS_WEEK",
		"CPI release",
		"## Macro Indicators",
		"STRENGTHENING",
		"## Metals Advice",
		"**Gold** `ACCUMULATE`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered output missing %q", want)
		}
	}
}

func TestRender_MarketClosed(t *testing.T) {
	rep := contracts.NewReport(time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC))
	rep.Status = contracts.StatusMarketClosed
	rep.GeneratedAt = time.Now()

	out := NewMarkdownRenderer().Render(rep)

	if !strings.Contains(out, "MARKET_CLOSED") {
		t.Error("Expected status line")
	}
	if !strings.Contains(out, "Market closed today") {
		t.Error("Expected market-closed body")
	}
	if strings.Contains(out, "## Technical Scans") {
		t.Error("Closed-day report must not render stage sections")
	}
}

func TestRender_UnavailableSections(t *testing.T) {
	rep := sampleReport()
	rep.Recommendations = nil
	rep.MarkUnavailable(contracts.SectionTechnicalScans, "scan failed: data unavailable")

	out := NewMarkdownRenderer().Render(rep)

	if !strings.Contains(out, "**Status:** PARTIAL") {
		t.Error("Expected PARTIAL status")
	}
	if !strings.Contains(out, "## Unavailable Sections") {
		t.Error("Expected unavailable section list")
	}
	if !strings.Contains(out, "`technical_scans`: scan failed") {
		t.Error("Expected named unavailable marker with reason")
	}
	if !strings.Contains(out, "_Section unavailable._") {
		t.Error("Expected placeholder in failed section body")
	}
}

func TestRender_StaleHoldingsBanner(t *testing.T) {
	rep := sampleReport()
	rep.StaleHoldings = true
	rep.SnapshotAge = 30 * time.Hour

	out := NewMarkdownRenderer().Render(rep)

	if !strings.Contains(out, "Holdings snapshot is 30h0m0s old") {
		t.Error("Expected stale snapshot banner")
	}
}

func TestSummary(t *testing.T) {
	s := NewMarkdownRenderer().Summary(sampleReport())

	if !strings.Contains(s, "2026-08-24") || !strings.Contains(s, "COMPLETE") {
		t.Errorf("Unexpected summary: %s", s)
	}
	if !strings.Contains(s, "1 ideas") || !strings.Contains(s, "2 holdings") {
		t.Errorf("Expected counts in summary: %s", s)
	}
}

func TestSummary_PartialNamesUnavailable(t *testing.T) {
	rep := sampleReport()
	rep.MarkUnavailable(contracts.SectionMetalsAdvice, "advice failed")

	s := NewMarkdownRenderer().Summary(rep)

	if !strings.Contains(s, "PARTIAL") || !strings.Contains(s, "metals_advice") {
		t.Errorf("Expected unavailable section named: %s", s)
	}
}

func TestSummary_MarketClosed(t *testing.T) {
	rep := contracts.NewReport(time.Now())
	rep.Status = contracts.StatusMarketClosed

	s := NewMarkdownRenderer().Summary(rep)
	if !strings.Contains(s, "market closed") {
		t.Errorf("Unexpected summary: %s", s)
	}
}
