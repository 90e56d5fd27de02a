package scan

import (
	"testing"
)

func TestDefaultScorer_ConfidenceDeterministic(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	a := s.Confidence(SignalOversold, 28, 2.0)
	b := s.Confidence(SignalOversold, 28, 2.0)
	if a != b {
		t.Errorf("Equal inputs must give equal confidence: %v vs %v", a, b)
	}

	if a < 0 || a > 1 {
		t.Errorf("Confidence out of [0,1]: %v", a)
	}
}

func TestDefaultScorer_ConfidenceMonotonic(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	// Deeper oversold reads higher
	deep := s.Confidence(SignalOversold, 20, 2.0)
	shallow := s.Confidence(SignalOversold, 29, 2.0)
	if deep <= shallow {
		t.Errorf("Expected deeper oversold to score higher: %v <= %v", deep, shallow)
	}

	// More volume reads higher
	heavy := s.Confidence(SignalOversold, 28, 3.0)
	light := s.Confidence(SignalOversold, 28, 1.6)
	if heavy <= light {
		t.Errorf("Expected heavier volume to score higher: %v <= %v", heavy, light)
	}
}

func TestDefaultScorer_ConfidenceCapped(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	// Extreme inputs must still cap at 1.0
	c := s.Confidence(SignalOversold, 1, 10.0)
	if c > 1.0 {
		t.Errorf("Confidence exceeds cap: %v", c)
	}
}

func TestDefaultScorer_OversoldAboveCrossoverBase(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	oversold := s.Confidence(SignalOversold, 29.9, 1.51)
	crossover := s.Confidence(SignalCrossover, 50.1, 1.51)
	if oversold <= crossover {
		t.Errorf("Oversold base must exceed crossover base: %v <= %v", oversold, crossover)
	}
}

func TestDefaultScorer_TargetAboveEntry(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	tests := []struct {
		name string
		sig  SignalType
		rsi  float64
		vol  float64
	}{
		{"oversold shallow", SignalOversold, 29, 1.6},
		{"oversold deep", SignalOversold, 10, 3.0},
		{"crossover light", SignalCrossover, 51, 1.6},
		{"crossover heavy", SignalCrossover, 60, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := s.Target(tt.sig, 100, tt.rsi, tt.vol)
			if target <= 100 {
				t.Errorf("Target must exceed entry: %v", target)
			}
		})
	}
}

func TestDefaultScorer_TargetWidensWithDepth(t *testing.T) {
	s := NewDefaultScorer(scanConfig())

	deep := s.Target(SignalOversold, 100, 15, 2.0)
	shallow := s.Target(SignalOversold, 100, 29, 2.0)
	if deep <= shallow {
		t.Errorf("Deeper oversold must project wider: %v <= %v", deep, shallow)
	}
}
