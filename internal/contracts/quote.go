package contracts

import "time"

// Quote is an instrument snapshot fetched once per run
// ⭐ SSOT: 시세 스냅샷은 이 타입으로만 전달
type Quote struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	RSI         float64   `json:"rsi"`      // RSI(14), current session
	PrevRSI     float64   `json:"prev_rsi"` // RSI(14), prior session
	Volume      float64   `json:"volume"`
	AvgVolume20 float64   `json:"avg_volume_20"`
	SMA20       float64   `json:"sma_20"`
	MarketCap   *float64  `json:"market_cap,omitempty"` // nil = unknown
	Halted      bool      `json:"halted"`
	AsOf        time.Time `json:"as_of"`
}

// VolumeRatio returns volume relative to the 20-session average.
// Zero average yields 0, never a division panic.
func (q *Quote) VolumeRatio() float64 {
	if q.AvgVolume20 <= 0 {
		return 0
	}
	return q.Volume / q.AvgVolume20
}

// SMADeviation returns (price - SMA20) / SMA20 * 100
func (q *Quote) SMADeviation() float64 {
	if q.SMA20 <= 0 {
		return 0
	}
	return (q.Price - q.SMA20) / q.SMA20 * 100
}
