// Package calendar answers trading-day questions and aggregates
// upcoming catalyst events from the earnings scrape and the scheduled
// economic-release file.
package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// HolidayCalendar knows the exchange holiday schedule
// ⭐ SSOT: 휴장일 판정은 여기서만
type HolidayCalendar struct {
	holidays map[string]string // date (2006-01-02) -> name
}

// LoadHolidays reads the holiday file, a JSON object of date to name
func LoadHolidays(path string) (*HolidayCalendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}

	var holidays map[string]string
	if err := json.Unmarshal(data, &holidays); err != nil {
		return nil, fmt.Errorf("parse holiday file %s: %w", path, err)
	}

	for date := range holidays {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q in %s", date, path)
		}
	}

	return &HolidayCalendar{holidays: holidays}, nil
}

// IsNonTradingDay reports whether the exchange is closed on the date
func (c *HolidayCalendar) IsNonTradingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	_, holiday := c.holidays[date.Format("2006-01-02")]
	return holiday
}

// HolidayName returns the holiday name for a date, if any
func (c *HolidayCalendar) HolidayName(date time.Time) (string, bool) {
	name, ok := c.holidays[date.Format("2006-01-02")]
	return name, ok
}
