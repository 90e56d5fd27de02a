package contracts

import "time"

// PositionSignal is the action classification for one held position
type PositionSignal string

const (
	SignalExit  PositionSignal = "EXIT"
	SignalHedge PositionSignal = "HEDGE"
	SignalTopUp PositionSignal = "TOP_UP"
	SignalHold  PositionSignal = "HOLD"
)

// Holding is one position plus the fields derived during a run
// ⭐ SSOT: 보유 포지션 데이터 전달
type Holding struct {
	// Base record (from the external snapshot, read-only)
	Symbol        string    `json:"symbol"`
	Shares        float64   `json:"shares"`
	CostBasis     float64   `json:"cost_basis"`
	EntryDate     time.Time `json:"entry_date"`
	HighWaterMark float64   `json:"high_water_mark"` // highest close since entry

	// Derived once per run by the risk engine
	CurrentPrice  float64        `json:"current_price"`
	SMADeviation  float64        `json:"sma_deviation"`  // percent
	Weight        float64        `json:"weight"`         // percent of total portfolio value
	UnrealizedPnL float64        `json:"unrealized_pnl"` // percent
	Sentiment     float64        `json:"sentiment"`      // [-1, 1]
	TrailingStop  float64        `json:"trailing_stop"`
	Signal        PositionSignal `json:"signal"`
	Rationale     string         `json:"rationale"`
}

// MarketValue returns shares * current price
func (h *Holding) MarketValue() float64 {
	return h.Shares * h.CurrentPrice
}

// PnLPercent returns the unrealized P&L percent against cost basis
func (h *Holding) PnLPercent() float64 {
	if h.CostBasis <= 0 {
		return 0
	}
	return (h.CurrentPrice - h.CostBasis) / h.CostBasis * 100
}

// UpdateTrailingStop ratchets the high-water mark against the latest daily
// close and recomputes the trailing stop. The mark only moves up.
func (h *Holding) UpdateTrailingStop(closePrice float64) {
	if closePrice > h.HighWaterMark {
		h.HighWaterMark = closePrice
	}
	h.TrailingStop = h.HighWaterMark * StopLossRatio
}

// HoldingsSnapshot is the externally supplied portfolio state
type HoldingsSnapshot struct {
	UpdatedAt time.Time `json:"updated_at"`
	Holdings  []Holding `json:"holdings"`
}

// Age returns how old the snapshot is relative to now
func (s *HoldingsSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.UpdatedAt)
}
