package catalyst

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/retry"
)

// Classifier buckets upcoming events and tags macro series with a trend
// ⭐ SSOT: 이벤트 버킷/매크로 추세 분류는 여기서만
type Classifier struct {
	calendar contracts.CalendarProvider
	macro    contracts.MacroProvider

	cfg    strategy.Catalyst
	policy retry.Policy

	logger *logger.Logger
}

// NewClassifier creates a new catalyst/macro classifier
func NewClassifier(
	calendar contracts.CalendarProvider,
	macro contracts.MacroProvider,
	cfg strategy.Catalyst,
	policy retry.Policy,
	log *logger.Logger,
) *Classifier {
	return &Classifier{
		calendar: calendar,
		macro:    macro,
		cfg:      cfg,
		policy:   policy,
		logger:   log.ForStage(contracts.SectionCatalysts),
	}
}

// Classify returns bucketed events and trend-tagged indicators for the
// reference date. Either half may fail independently; the error reports
// which inputs were unavailable.
func (c *Classifier) Classify(ctx context.Context, refDate time.Time) ([]contracts.CatalystEvent, []contracts.MacroIndicator, error) {
	events, eventsErr := c.classifyEvents(ctx, refDate)
	indicators, macroErr := c.classifyMacro(ctx)

	if eventsErr != nil && macroErr != nil {
		return nil, nil, contracts.ErrUnavailable
	}
	if eventsErr != nil {
		return nil, indicators, eventsErr
	}
	if macroErr != nil {
		return events, nil, macroErr
	}

	return events, indicators, nil
}

// classifyEvents fetches raw events and assigns each a time bucket.
// Bucketing is a pure function of (event date - reference date).
func (c *Classifier) classifyEvents(ctx context.Context, refDate time.Time) ([]contracts.CatalystEvent, error) {
	raw, err := retry.Do(ctx, c.policy, "calendar events", func(ctx context.Context) ([]contracts.CatalystEvent, error) {
		return c.calendar.EventsNear(ctx, refDate)
	})
	if err != nil {
		c.logger.WithError(err).Warn("Event fetch failed")
		return nil, err
	}

	classified := make([]contracts.CatalystEvent, 0, len(raw))
	for _, ev := range raw {
		bucket, ok := c.Bucket(refDate, ev.Date)
		if !ok {
			continue
		}
		ev.Bucket = bucket
		classified = append(classified, ev)
	}

	// Nearest first, symbols alphabetical within a day for stable output
	sort.Slice(classified, func(i, j int) bool {
		if !classified[i].Date.Equal(classified[j].Date) {
			return classified[i].Date.Before(classified[j].Date)
		}
		return classified[i].Description < classified[j].Description
	})

	c.logger.WithFields(map[string]interface{}{
		"raw":        len(raw),
		"classified": len(classified),
	}).Info("Catalyst events classified")

	return classified, nil
}

// Bucket maps an event date to its horizon bucket relative to refDate.
// Past events and events beyond the long horizon are excluded.
func (c *Classifier) Bucket(refDate, eventDate time.Time) (contracts.TimeBucket, bool) {
	days := daysBetween(refDate, eventDate)

	switch {
	case days == 0:
		return contracts.BucketToday, true
	case days >= 1 && days <= c.cfg.WeekHorizonDays:
		return contracts.BucketThisWeek, true
	case days > c.cfg.WeekHorizonDays && days <= c.cfg.LongHorizonDays:
		return contracts.BucketThreeMonth, true
	default:
		return "", false
	}
}

// classifyMacro fetches each configured series and derives its trend
func (c *Classifier) classifyMacro(ctx context.Context) ([]contracts.MacroIndicator, error) {
	indicators := make([]contracts.MacroIndicator, 0, len(c.cfg.MacroSeries))
	failures := 0

	for _, name := range c.cfg.MacroSeries {
		series, err := retry.Do(ctx, c.policy, "macro "+name, func(ctx context.Context) (*contracts.MacroSeries, error) {
			return c.macro.Series(ctx, name)
		})
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"series": name,
				"error":  err.Error(),
			}).Warn("Macro series fetch failed")
			failures++
			continue
		}

		indicators = append(indicators, contracts.MacroIndicator{
			Name:      series.Name,
			Value:     series.Current,
			Previous:  series.Previous,
			Trend:     c.Trend(series.Current, series.Previous),
			Timestamp: series.Timestamp,
			Source:    "FRED",
		})
	}

	if failures == len(c.cfg.MacroSeries) && len(c.cfg.MacroSeries) > 0 {
		return nil, contracts.ErrUnavailable
	}

	return indicators, nil
}

// Trend compares current to previous with a dead-band so noise-level moves
// never flip the direction between runs.
func (c *Classifier) Trend(current, previous float64) contracts.Trend {
	deadBand := math.Abs(previous) * c.cfg.TrendDeadBandPct / 100
	delta := current - previous

	switch {
	case delta > deadBand:
		return contracts.TrendStrengthening
	case delta < -deadBand:
		return contracts.TrendWeakening
	default:
		return contracts.TrendNeutral
	}
}

// daysBetween counts whole calendar days from a to b, ignoring clock time
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}
