package contracts

import "time"

// EventKind classifies the source of a catalyst event
type EventKind string

const (
	EventEarnings   EventKind = "earnings"
	EventRegulatory EventKind = "regulatory"
	EventCommentary EventKind = "commentary" // scheduled official commentary (e.g. Fed speeches)
	EventEconomic   EventKind = "economic_release"
	EventCyclical   EventKind = "cyclical"
)

// TimeBucket is the horizon classification for a catalyst event
type TimeBucket string

const (
	BucketToday      TimeBucket = "TODAY"
	BucketThisWeek   TimeBucket = "THIS_WEEK"
	BucketThreeMonth TimeBucket = "THREE_MONTH"
)

// CatalystEvent is one upcoming market event
// ⭐ SSOT: 캘린더 이벤트 전달
type CatalystEvent struct {
	Date        time.Time  `json:"date"`
	Kind        EventKind  `json:"kind"`
	Symbols     []string   `json:"symbols,omitempty"`
	Description string     `json:"description"`
	Bucket      TimeBucket `json:"bucket,omitempty"` // set by the classifier

	// Optional earnings metadata
	ReportTiming string   `json:"report_timing,omitempty"` // "bmo" / "amc"
	Consensus    *float64 `json:"consensus,omitempty"`     // EPS estimate
}
