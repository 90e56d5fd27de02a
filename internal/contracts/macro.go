package contracts

import "time"

// Trend is the derived direction of a macro series
type Trend string

const (
	TrendStrengthening Trend = "STRENGTHENING"
	TrendWeakening     Trend = "WEAKENING"
	TrendNeutral       Trend = "NEUTRAL"
)

// Well-known macro indicator names
const (
	MacroDollarIndex  = "dollar_index"
	MacroTenYearYield = "ten_year_yield"
	MacroCPI          = "cpi"
	MacroPCE          = "pce"
	MacroRateProb     = "rate_cut_probability"
	MacroGeoTension   = "geopolitical_tension"
)

// MacroSeries is the raw two-point series returned by a macro provider
type MacroSeries struct {
	Name      string    `json:"name"`
	Current   float64   `json:"current"`
	Previous  float64   `json:"previous"`
	Timestamp time.Time `json:"timestamp"`
}

// MacroIndicator is a macro series with its derived trend
// ⭐ SSOT: 매크로 지표 전달
type MacroIndicator struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Previous  float64   `json:"previous"`
	Trend     Trend     `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // e.g. "FRED"
}

// ChangePercent returns the percent change from previous to current.
// Derived on demand, never stored.
func (m *MacroIndicator) ChangePercent() float64 {
	if m.Previous == 0 {
		return 0
	}
	return (m.Value - m.Previous) / m.Previous * 100
}
