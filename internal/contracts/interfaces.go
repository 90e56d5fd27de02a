package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable signals that a provider could not supply data.
// Distinct from a valid zero value.
var ErrUnavailable = errors.New("data unavailable")

// QuoteProvider supplies per-instrument snapshots
// ⭐ SSOT: 시세 조회 인터페이스
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// MacroProvider supplies two-point macro series
// ⭐ SSOT: 매크로 시계열 조회 인터페이스
type MacroProvider interface {
	Series(ctx context.Context, name string) (*MacroSeries, error)
}

// SentimentProvider supplies news sentiment scores in [-1, 1]
type SentimentProvider interface {
	Sentiment(ctx context.Context, symbol string) (float64, error)
}

// CalendarProvider supplies trading-day checks and upcoming events
type CalendarProvider interface {
	IsNonTradingDay(date time.Time) bool
	EventsNear(ctx context.Context, date time.Time) ([]CatalystEvent, error)
}

// HoldingsProvider supplies the read-only portfolio snapshot
type HoldingsProvider interface {
	Snapshot(ctx context.Context) (*HoldingsSnapshot, error)
}

// Publisher receives the finished report plus its rendered form
type Publisher interface {
	Publish(ctx context.Context, report *Report, rendered string) error
}

// Notifier delivers a short run summary out of band
type Notifier interface {
	Notify(ctx context.Context, summary string) error
}

// SignalScanner screens instrument universes for trade ideas (stage 1)
// ⭐ SSOT: 기술적 스캔 인터페이스
type SignalScanner interface {
	Scan(ctx context.Context) ([]Recommendation, error)
}

// RiskAnalyzer classifies each held position into an action signal (stage 2)
// ⭐ SSOT: 포트폴리오 리스크 분석 인터페이스
type RiskAnalyzer interface {
	Analyze(ctx context.Context, snapshot *HoldingsSnapshot) ([]Holding, error)
}

// EventClassifier buckets catalysts and tags macro trends (stage 3)
// ⭐ SSOT: 캘린더/매크로 분류 인터페이스
type EventClassifier interface {
	Classify(ctx context.Context, refDate time.Time) ([]CatalystEvent, []MacroIndicator, error)
}

// MetalsAdvisor produces the precious-metals call from macro state (stage 4)
// ⭐ SSOT: 금속 타이밍 판단 인터페이스
type MetalsAdvisor interface {
	Advise(ctx context.Context, indicators []MacroIndicator) (*MetalsAdvice, error)
}
