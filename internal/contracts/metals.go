package contracts

// MetalAction is the timing call for one tracked metal
type MetalAction string

const (
	MetalAccumulate MetalAction = "ACCUMULATE"
	MetalHold       MetalAction = "HOLD"
	MetalProfitTake MetalAction = "PROFIT_TAKE"
)

// Tracked metal symbols
const (
	MetalGold   = "GOLD"
	MetalSilver = "SILVER"
)

// MetalCall is the per-metal slice of a MetalsAdvice
type MetalCall struct {
	Symbol string      `json:"symbol"`
	Price  float64     `json:"price"`
	RSI    float64     `json:"rsi"`
	Action MetalAction `json:"action"`
}

// MetalsAdvice is the precious-metals timing call conditioned on macro state.
// Both conditioning indicators are mandatory: without them no advice exists.
// ⭐ SSOT: 금/은 타이밍 판단 전달
type MetalsAdvice struct {
	Gold   MetalCall `json:"gold"`
	Silver MetalCall `json:"silver"`

	DollarIndex  MacroIndicator `json:"dollar_index"`
	TenYearYield MacroIndicator `json:"ten_year_yield"`

	Rationale string `json:"rationale"`
}
