package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wonny/alpha/internal/contracts"
)

// scheduledEvent is one entry of the scheduled-events file
type scheduledEvent struct {
	Date        string   `json:"date"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Symbols     []string `json:"symbols,omitempty"`
}

// LoadScheduledEvents reads the curated economic-release and commentary
// schedule. Earnings come from the scrape, not this file.
func LoadScheduledEvents(path string) ([]contracts.CatalystEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var raw []scheduledEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse events file %s: %w", path, err)
	}

	events := make([]contracts.CatalystEvent, 0, len(raw))
	for i, e := range raw {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, fmt.Errorf("event %d: invalid date %q in %s", i, e.Date, path)
		}
		kind := contracts.EventKind(e.Kind)
		switch kind {
		case contracts.EventEarnings, contracts.EventRegulatory, contracts.EventCommentary,
			contracts.EventEconomic, contracts.EventCyclical:
		default:
			return nil, fmt.Errorf("event %d: unknown kind %q in %s", i, e.Kind, path)
		}

		events = append(events, contracts.CatalystEvent{
			Date:        date,
			Kind:        kind,
			Symbols:     e.Symbols,
			Description: e.Description,
		})
	}

	return events, nil
}
