// Package report renders a finished intelligence report to markdown for
// publishing and to a short plain-text summary for notification.
package report

import (
	"fmt"
	"strings"

	"github.com/wonny/alpha/internal/contracts"
)

// MarkdownRenderer renders reports for the issue publisher
// ⭐ SSOT: 리포트 렌더링은 여기서만
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a new renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render produces the full markdown document
func (r *MarkdownRenderer) Render(rep *contracts.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Intelligence Digest — %s\n\n", rep.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Status:** %s\n\n", rep.Status)

	if rep.StaleHoldings {
		fmt.Fprintf(&b, "> ⚠️ Holdings snapshot is %s old — analysis may lag reality.\n\n",
			rep.SnapshotAge.Round(1e9).String())
	}

	if rep.Status == contracts.StatusMarketClosed {
		b.WriteString("Market closed today. No analysis performed.\n")
		return b.String()
	}

	r.renderScans(&b, rep)
	r.renderPortfolio(&b, rep)
	r.renderCatalysts(&b, rep)
	r.renderMacro(&b, rep)
	r.renderMetals(&b, rep)

	if len(rep.Unavailable) > 0 {
		b.WriteString("## Unavailable Sections\n\n")
		for _, section := range contracts.SectionNames {
			if reason, ok := rep.Unavailable[section]; ok {
				fmt.Fprintf(&b, "- `%s`: %s\n", section, reason)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n*Generated at %s*\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	return b.String()
}

func (r *MarkdownRenderer) renderScans(b *strings.Builder, rep *contracts.Report) {
	b.WriteString("## Technical Scans\n\n")
	if rep.IsUnavailable(contracts.SectionTechnicalScans) {
		b.WriteString("_Section unavailable._\n\n")
		return
	}
	if len(rep.Recommendations) == 0 {
		b.WriteString("No qualifying setups today.\n\n")
		return
	}

	b.WriteString("| Symbol | Universe | Entry | Target | Stop | RSI | Vol | Conf |\n")
	b.WriteString("|--------|----------|-------|--------|------|-----|-----|------|\n")
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(b, "| %s | %s | %.2f | %.2f | %.2f | %.1f | %.1fx | %.2f |\n",
			rec.Symbol, rec.Universe, rec.Entry, rec.Target, rec.StopLoss,
			rec.RSI, rec.VolumeRatio, rec.Confidence)
	}
	b.WriteString("\n")
}

func (r *MarkdownRenderer) renderPortfolio(b *strings.Builder, rep *contracts.Report) {
	b.WriteString("## Portfolio Alerts\n\n")
	if rep.IsUnavailable(contracts.SectionPortfolioAlerts) {
		b.WriteString("_Section unavailable._\n\n")
		return
	}
	if len(rep.Holdings) == 0 {
		b.WriteString("No holdings on file.\n\n")
		return
	}

	for _, h := range rep.Holdings {
		marker := "🟢"
		switch h.Signal {
		case contracts.SignalExit:
			marker = "🔴"
		case contracts.SignalHedge:
			marker = "🟠"
		case contracts.SignalTopUp:
			marker = "🔵"
		}
		fmt.Fprintf(b, "- %s **%s** `%s` — %s\n", marker, h.Symbol, h.Signal, h.Rationale)
	}
	b.WriteString("\n")
}

func (r *MarkdownRenderer) renderCatalysts(b *strings.Builder, rep *contracts.Report) {
	b.WriteString("## Catalysts\n\n")
	if rep.IsUnavailable(contracts.SectionCatalysts) {
		b.WriteString("_Section unavailable._\n\n")
		return
	}
	if len(rep.Catalysts) == 0 {
		b.WriteString("No catalysts in horizon.\n\n")
		return
	}

	for _, bucket := range []contracts.TimeBucket{
		contracts.BucketToday, contracts.BucketThisWeek, contracts.BucketThreeMonth,
	} {
		var lines []string
		for _, ev := range rep.Catalysts {
			if ev.Bucket != bucket {
				continue
			}
			line := fmt.Sprintf("- %s (%s) %s", ev.Date.Format("01-02"), ev.Kind, ev.Description)
			if len(ev.Symbols) > 0 {
				line += " [" + strings.Join(ev.Symbols, ", ") + "]"
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n%s\n\n", bucket, strings.Join(lines, "\n"))
	}
}

func (r *MarkdownRenderer) renderMacro(b *strings.Builder, rep *contracts.Report) {
	b.WriteString("## Macro Indicators\n\n")
	if rep.IsUnavailable(contracts.SectionMacroIndicators) {
		b.WriteString("_Section unavailable._\n\n")
		return
	}
	if len(rep.MacroIndicators) == 0 {
		b.WriteString("No macro data.\n\n")
		return
	}

	b.WriteString("| Series | Value | Previous | Change | Trend |\n")
	b.WriteString("|--------|-------|----------|--------|-------|\n")
	for _, m := range rep.MacroIndicators {
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %+.2f%% | %s |\n",
			m.Name, m.Value, m.Previous, m.ChangePercent(), m.Trend)
	}
	b.WriteString("\n")
}

func (r *MarkdownRenderer) renderMetals(b *strings.Builder, rep *contracts.Report) {
	b.WriteString("## Metals Advice\n\n")
	if rep.IsUnavailable(contracts.SectionMetalsAdvice) {
		b.WriteString("_Section unavailable._\n\n")
		return
	}
	if rep.MetalsAdvice == nil {
		b.WriteString("No advice issued.\n\n")
		return
	}

	advice := rep.MetalsAdvice
	fmt.Fprintf(b, "- **Gold** `%s` — price %.2f, RSI %.1f\n", advice.Gold.Action, advice.Gold.Price, advice.Gold.RSI)
	fmt.Fprintf(b, "- **Silver** `%s` — price %.2f, RSI %.1f\n", advice.Silver.Action, advice.Silver.Price, advice.Silver.RSI)
	fmt.Fprintf(b, "\n%s\n\n", advice.Rationale)
}

// Summary produces the one-line notification text
func (r *MarkdownRenderer) Summary(rep *contracts.Report) string {
	if rep.Status == contracts.StatusMarketClosed {
		return fmt.Sprintf("Digest %s: market closed", rep.Date.Format("2006-01-02"))
	}

	parts := []string{
		fmt.Sprintf("%d ideas", len(rep.Recommendations)),
		fmt.Sprintf("%d holdings", len(rep.Holdings)),
		fmt.Sprintf("%d catalysts", len(rep.Catalysts)),
	}

	s := fmt.Sprintf("Digest %s [%s]: %s",
		rep.Date.Format("2006-01-02"), rep.Status, strings.Join(parts, ", "))

	if len(rep.Unavailable) > 0 {
		var names []string
		for _, section := range contracts.SectionNames {
			if _, ok := rep.Unavailable[section]; ok {
				names = append(names, section)
			}
		}
		s += " — unavailable: " + strings.Join(names, ", ")
	}

	return s
}
