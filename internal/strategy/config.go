package strategy

import "time"

// Config는 일일 다이제스트 전략의 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universes Universes `yaml:"universes" json:"universes"`
	Scan      Scan      `yaml:"scan" json:"scan"`
	Portfolio Portfolio `yaml:"portfolio" json:"portfolio"`
	Catalyst  Catalyst  `yaml:"catalyst" json:"catalyst"`
	Metals    Metals    `yaml:"metals" json:"metals"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID       string `yaml:"strategy_id" json:"strategy_id"`
	Version          string `yaml:"version" json:"version"`
	Timezone         string `yaml:"timezone" json:"timezone"`
	RunTimeLocal     string `yaml:"run_time_local" json:"run_time_local"` // HH:MM
	PublishByLocal   string `yaml:"publish_by_local" json:"publish_by_local"`
	ReferenceCalendar string `yaml:"reference_calendar" json:"reference_calendar"` // e.g. "NYSE"
}

// Universes lists the instrument symbols scanned per universe tag
type Universes struct {
	Biotech    []string `yaml:"biotech" json:"biotech"`
	BigTech    []string `yaml:"big_tech" json:"big_tech"`
	Energy     []string `yaml:"energy" json:"energy"`
	Financials []string `yaml:"financials" json:"financials"`
}

// All returns universe tag -> symbols for iteration in a stable order
func (u Universes) All() []TaggedUniverse {
	return []TaggedUniverse{
		{Tag: "biotech", Symbols: u.Biotech},
		{Tag: "big_tech", Symbols: u.BigTech},
		{Tag: "energy", Symbols: u.Energy},
		{Tag: "financials", Symbols: u.Financials},
	}
}

// TaggedUniverse pairs a universe tag with its symbols
type TaggedUniverse struct {
	Tag     string
	Symbols []string
}

// Count returns the total number of symbols across all universes
func (u Universes) Count() int {
	return len(u.Biotech) + len(u.BigTech) + len(u.Energy) + len(u.Financials)
}

// Scan holds the technical-scan gates and envelope parameters
type Scan struct {
	RSIOversold        float64 `yaml:"rsi_oversold" json:"rsi_oversold"`                 // 30
	RSICrossover       float64 `yaml:"rsi_crossover" json:"rsi_crossover"`               // 50
	VolumeRatioMin     float64 `yaml:"volume_ratio_min" json:"volume_ratio_min"`         // 1.5
	BiotechMarketCapMin float64 `yaml:"biotech_marketcap_min" json:"biotech_marketcap_min"` // 500M
	MaxRecommendations int     `yaml:"max_recommendations" json:"max_recommendations"`   // 10
	MaxConcurrency     int     `yaml:"max_concurrency" json:"max_concurrency"`
}

// Portfolio holds the risk-engine classification thresholds
type Portfolio struct {
	SMABreachPct       float64 `yaml:"sma_breach_pct" json:"sma_breach_pct"`               // -5
	ExitWeightPct      float64 `yaml:"exit_weight_pct" json:"exit_weight_pct"`             // 10
	ExitPnLPct         float64 `yaml:"exit_pnl_pct" json:"exit_pnl_pct"`                   // -10
	TopUpSentimentMin  float64 `yaml:"topup_sentiment_min" json:"topup_sentiment_min"`     // 0.7
}

// Catalyst holds the bucketing horizon and the macro trend dead-band
type Catalyst struct {
	WeekHorizonDays  int     `yaml:"week_horizon_days" json:"week_horizon_days"`   // 6
	LongHorizonDays  int     `yaml:"long_horizon_days" json:"long_horizon_days"`   // 90
	TrendDeadBandPct float64 `yaml:"trend_deadband_pct" json:"trend_deadband_pct"` // 1.0
	MacroSeries      []string `yaml:"macro_series" json:"macro_series"`
}

// Metals holds the precious-metals decision thresholds
type Metals struct {
	RSIOverbought       float64 `yaml:"rsi_overbought" json:"rsi_overbought"`               // 70
	GeoTensionThreshold float64 `yaml:"geo_tension_threshold" json:"geo_tension_threshold"` // 0.7
	GoldSymbol          string  `yaml:"gold_symbol" json:"gold_symbol"`                     // GLD proxy
	SilverSymbol        string  `yaml:"silver_symbol" json:"silver_symbol"`                 // SLV proxy
}

// DecisionSnapshot 의사결정 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
