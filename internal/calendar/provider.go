package calendar

import (
	"context"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// EarningsSource scrapes earnings report dates for one calendar day
type EarningsSource interface {
	EarningsOn(ctx context.Context, date time.Time) ([]contracts.CatalystEvent, error)
}

// Provider combines the holiday schedule, the earnings scrape and the
// scheduled-events file into one calendar view
// ⭐ SSOT: 캘린더 조회는 여기서만
type Provider struct {
	holidays  *HolidayCalendar
	earnings  EarningsSource
	scheduled []contracts.CatalystEvent

	// Earnings are scraped day by day, so only the near window is
	// covered by the scrape. The scheduled file carries the rest.
	earningsDays int

	logger *logger.Logger
}

// NewProvider creates a calendar provider. earnings may be nil when no
// scrape source is configured.
func NewProvider(holidays *HolidayCalendar, earnings EarningsSource, scheduled []contracts.CatalystEvent, earningsDays int, log *logger.Logger) *Provider {
	return &Provider{
		holidays:     holidays,
		earnings:     earnings,
		scheduled:    scheduled,
		earningsDays: earningsDays,
		logger:       log.WithField("component", "calendar"),
	}
}

// IsNonTradingDay reports whether the exchange is closed on the date
func (p *Provider) IsNonTradingDay(date time.Time) bool {
	return p.holidays.IsNonTradingDay(date)
}

// EventsNear returns all known events from the reference date forward:
// scraped earnings over the near window plus every scheduled event. A
// failed scrape day is logged and skipped, never fatal — the scheduled
// file alone still yields a usable section.
func (p *Provider) EventsNear(ctx context.Context, date time.Time) ([]contracts.CatalystEvent, error) {
	var events []contracts.CatalystEvent
	events = append(events, p.scheduled...)

	if p.earnings == nil {
		return events, nil
	}

	for offset := 0; offset < p.earningsDays; offset++ {
		day := date.AddDate(0, 0, offset)
		if p.holidays.IsNonTradingDay(day) {
			continue
		}

		dayEvents, err := p.earnings.EarningsOn(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return events, ctx.Err()
			}
			p.logger.WithError(err).WithField("date", day.Format("2006-01-02")).Warn("Earnings scrape failed, skipping day")
			continue
		}
		events = append(events, dayEvents...)
	}

	return events, nil
}
