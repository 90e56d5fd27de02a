package contracts

import "time"

// ReportStatus is the overall outcome of one pipeline run
type ReportStatus string

const (
	StatusComplete     ReportStatus = "COMPLETE"
	StatusPartial      ReportStatus = "PARTIAL"
	StatusMarketClosed ReportStatus = "MARKET_CLOSED"
)

// Named report sections, one per decision stage
const (
	SectionTechnicalScans  = "technical_scans"
	SectionPortfolioAlerts = "portfolio_alerts"
	SectionCatalysts       = "catalysts"
	SectionMacroIndicators = "macro_indicators"
	SectionMetalsAdvice    = "metals_advice"
)

// SectionNames lists all report sections in pipeline order
var SectionNames = []string{
	SectionTechnicalScans,
	SectionPortfolioAlerts,
	SectionCatalysts,
	SectionMacroIndicators,
	SectionMetalsAdvice,
}

// Report is the aggregate output of one pipeline run
// ⭐ SSOT: 일일 리포트는 오케스트레이터만 생성/수정
type Report struct {
	Date        time.Time    `json:"date"`
	Status      ReportStatus `json:"status"`
	GeneratedAt time.Time    `json:"generated_at"`

	Recommendations []Recommendation `json:"recommendations"`
	Holdings        []Holding        `json:"holdings"`
	Catalysts       []CatalystEvent  `json:"catalysts"`
	MacroIndicators []MacroIndicator `json:"macro_indicators"`
	MetalsAdvice    *MetalsAdvice    `json:"metals_advice,omitempty"`

	// section name -> reason, only for sections that could not be produced
	Unavailable map[string]string `json:"unavailable,omitempty"`

	// Snapshot older than the configured maximum at run time
	StaleHoldings bool          `json:"stale_holdings"`
	SnapshotAge   time.Duration `json:"snapshot_age,omitempty"`
}

// NewReport creates an empty report for the given run date
func NewReport(date time.Time) *Report {
	return &Report{
		Date:        date,
		Status:      StatusComplete,
		Unavailable: make(map[string]string),
	}
}

// MarkUnavailable records a failed section and downgrades the status.
// MARKET_CLOSED is terminal and is never downgraded to PARTIAL.
func (r *Report) MarkUnavailable(section, reason string) {
	if r.Unavailable == nil {
		r.Unavailable = make(map[string]string)
	}
	r.Unavailable[section] = reason

	if r.Status == StatusComplete {
		r.Status = StatusPartial
	}
}

// IsUnavailable reports whether a named section failed
func (r *Report) IsUnavailable(section string) bool {
	_, ok := r.Unavailable[section]
	return ok
}
