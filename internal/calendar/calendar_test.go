package calendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testHolidays(t *testing.T) *HolidayCalendar {
	t.Helper()
	path := writeFile(t, "holidays.json", `{
		"2026-09-07": "Labor Day",
		"2026-11-26": "Thanksgiving Day"
	}`)
	cal, err := LoadHolidays(path)
	if err != nil {
		t.Fatalf("LoadHolidays failed: %v", err)
	}
	return cal
}

func TestIsNonTradingDay(t *testing.T) {
	cal := testHolidays(t)

	tests := []struct {
		date string
		want bool
	}{
		{"2026-08-24", false}, // Monday
		{"2026-08-22", true},  // Saturday
		{"2026-08-23", true},  // Sunday
		{"2026-09-07", true},  // Labor Day
		{"2026-09-08", false}, // day after
	}

	for _, tt := range tests {
		date, _ := time.Parse("2006-01-02", tt.date)
		if got := cal.IsNonTradingDay(date); got != tt.want {
			t.Errorf("IsNonTradingDay(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestLoadHolidays_RejectsBadDate(t *testing.T) {
	path := writeFile(t, "bad.json", `{"09/07/2026": "Labor Day"}`)
	if _, err := LoadHolidays(path); err == nil {
		t.Error("Expected error for malformed holiday date")
	}
}

func TestLoadScheduledEvents(t *testing.T) {
	path := writeFile(t, "events.json", `[
		{"date": "2026-09-11", "kind": "economic_release", "description": "CPI (August)"},
		{"date": "2026-09-17", "kind": "commentary", "description": "FOMC press conference"}
	]`)

	events, err := LoadScheduledEvents(path)
	if err != nil {
		t.Fatalf("LoadScheduledEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Kind != contracts.EventEconomic {
		t.Errorf("Expected economic_release kind, got %s", events[0].Kind)
	}
}

func TestLoadScheduledEvents_RejectsUnknownKind(t *testing.T) {
	path := writeFile(t, "events.json", `[{"date": "2026-09-11", "kind": "astrology", "description": "x"}]`)
	if _, err := LoadScheduledEvents(path); err == nil {
		t.Error("Expected error for unknown event kind")
	}
}

type fakeEarnings struct {
	byDate map[string][]contracts.CatalystEvent
	errs   map[string]error
	calls  []string
}

func (f *fakeEarnings) EarningsOn(ctx context.Context, date time.Time) ([]contracts.CatalystEvent, error) {
	key := date.Format("2006-01-02")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.byDate[key], nil
}

func TestEventsNear_MergesScrapeAndSchedule(t *testing.T) {
	refDate := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // Monday

	earnings := &fakeEarnings{byDate: map[string][]contracts.CatalystEvent{
		"2026-08-24": {{Kind: contracts.EventEarnings, Description: "GILD earnings"}},
		"2026-08-26": {{Kind: contracts.EventEarnings, Description: "NVDA earnings"}},
	}}
	scheduled := []contracts.CatalystEvent{
		{Kind: contracts.EventEconomic, Description: "CPI (September)"},
	}

	provider := NewProvider(testHolidays(t), earnings, scheduled, 7, logger.Nop())

	events, err := provider.EventsNear(context.Background(), refDate)
	if err != nil {
		t.Fatalf("EventsNear failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 merged events, got %d", len(events))
	}

	// Weekend days inside the window must not be scraped
	for _, day := range earnings.calls {
		if day == "2026-08-29" || day == "2026-08-30" {
			t.Errorf("Scraped non-trading day %s", day)
		}
	}
}

func TestEventsNear_ScrapeFailureSkipsDay(t *testing.T) {
	refDate := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	earnings := &fakeEarnings{
		byDate: map[string][]contracts.CatalystEvent{
			"2026-08-25": {{Kind: contracts.EventEarnings, Description: "VRTX earnings"}},
		},
		errs: map[string]error{"2026-08-24": errors.New("blocked")},
	}

	provider := NewProvider(testHolidays(t), earnings, nil, 2, logger.Nop())

	events, err := provider.EventsNear(context.Background(), refDate)
	if err != nil {
		t.Fatalf("EventsNear failed: %v", err)
	}
	if len(events) != 1 || events[0].Description != "VRTX earnings" {
		t.Errorf("Expected surviving day's events, got %v", events)
	}
}

func TestEventsNear_NoScrapeSource(t *testing.T) {
	scheduled := []contracts.CatalystEvent{{Kind: contracts.EventEconomic, Description: "PCE"}}
	provider := NewProvider(testHolidays(t), nil, scheduled, 7, logger.Nop())

	events, err := provider.EventsNear(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("EventsNear failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Expected scheduled events only, got %d", len(events))
	}
}
