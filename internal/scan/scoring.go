package scan

import (
	"math"

	"github.com/wonny/alpha/internal/strategy"
)

// SignalType identifies which RSI gate a candidate passed
type SignalType string

const (
	SignalOversold  SignalType = "oversold"
	SignalCrossover SignalType = "crossover" // upward RSI crossover through 50
)

// Scorer turns gate metrics into a confidence score and a target price.
// Pure function of the gate metrics: equal inputs give equal ranking.
// ⭐ SSOT: 신뢰도/목표가 산출은 이 인터페이스 뒤에서만
type Scorer interface {
	Confidence(sig SignalType, rsi, volumeRatio float64) float64
	Target(sig SignalType, entry, rsi, volumeRatio float64) float64
}

// DefaultScorer is the resistance-projection scorer tuned for daily scans
type DefaultScorer struct {
	cfg strategy.Scan
}

// NewDefaultScorer creates the default scorer from scan thresholds
func NewDefaultScorer(cfg strategy.Scan) *DefaultScorer {
	return &DefaultScorer{cfg: cfg}
}

// Confidence combines RSI distance from the crossed threshold with volume
// ratio magnitude. Oversold entries start from a higher base than crossovers.
// Result is capped at 1.0 and rounded to two decimals for stable ranking.
func (s *DefaultScorer) Confidence(sig SignalType, rsi, volumeRatio float64) float64 {
	var base, rsiFactor float64

	switch sig {
	case SignalOversold:
		base = 0.6
		rsiFactor = (s.cfg.RSIOversold - rsi) / s.cfg.RSIOversold * 0.2
	case SignalCrossover:
		base = 0.5
		rsiFactor = (rsi - s.cfg.RSICrossover) / s.cfg.RSICrossover * 0.2
	}

	if rsiFactor < 0 {
		rsiFactor = 0
	}

	volFactor := math.Min((volumeRatio-s.cfg.VolumeRatioMin)/2.5, 1.0) * 0.2
	if volFactor < 0 {
		volFactor = 0
	}

	conf := base + rsiFactor + volFactor
	if conf > 1.0 {
		conf = 1.0
	}

	return math.Round(conf*100) / 100
}

// Target projects a resistance-based price above entry. Deeper oversold
// readings earn a wider projection; crossovers scale with excess volume.
func (s *DefaultScorer) Target(sig SignalType, entry, rsi, volumeRatio float64) float64 {
	switch sig {
	case SignalOversold:
		depth := (s.cfg.RSIOversold - rsi) / s.cfg.RSIOversold
		if depth < 0 {
			depth = 0
		}
		return entry * (1 + 0.10 + 0.05*depth)
	case SignalCrossover:
		excess := math.Min(volumeRatio-s.cfg.VolumeRatioMin, 1.0)
		if excess < 0 {
			excess = 0
		}
		return entry * (1 + 0.05 + 0.05*excess)
	}
	return entry
}
