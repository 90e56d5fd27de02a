package contracts

import (
	"fmt"
	"math"
	"time"
)

// StopLossRatio is the fixed stop-loss distance below entry.
const StopLossRatio = 0.975

// Recommendation is one ranked trade idea with its full risk envelope
// ⭐ SSOT: 기술적 스캔 결과는 이 타입으로만 전달
type Recommendation struct {
	Symbol      string    `json:"symbol"`
	Universe    string    `json:"universe"` // e.g. "biotech", "big_tech"
	Entry       float64   `json:"entry"`
	Target      float64   `json:"target"`
	StopLoss    float64   `json:"stop_loss"`
	RSI         float64   `json:"rsi"`
	VolumeRatio float64   `json:"volume_ratio"`
	Confidence  float64   `json:"confidence"` // [0, 1]
	MarketCap   *float64  `json:"market_cap,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Validate checks the risk envelope. A recommendation missing any of the
// three prices, or with an inconsistent envelope, must be dropped.
func (r *Recommendation) Validate() error {
	if r.Entry <= 0 || r.Target <= 0 || r.StopLoss <= 0 {
		return fmt.Errorf("recommendation %s: entry/target/stop must all be positive", r.Symbol)
	}

	if r.Target <= r.Entry {
		return fmt.Errorf("recommendation %s: target %.2f must exceed entry %.2f", r.Symbol, r.Target, r.Entry)
	}

	// stop = entry * 0.975 within rounding tolerance
	if math.Abs(r.StopLoss-r.Entry*StopLossRatio) > 0.01 {
		return fmt.Errorf("recommendation %s: stop %.4f is not entry*%.3f", r.Symbol, r.StopLoss, StopLossRatio)
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("recommendation %s: confidence %.2f out of [0,1]", r.Symbol, r.Confidence)
	}

	return nil
}

// RiskReward returns the reward-to-risk ratio of the envelope
func (r *Recommendation) RiskReward() float64 {
	risk := r.Entry - r.StopLoss
	if risk <= 0 {
		return 0
	}
	return (r.Target - r.Entry) / risk
}
