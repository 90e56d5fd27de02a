// Package nasdaq scrapes the Nasdaq earnings calendar for upcoming
// report dates.
package nasdaq

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

// Client handles the Nasdaq earnings-calendar pages
// ⭐ SSOT: Nasdaq 실적 캘린더 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Nasdaq calendar client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://www.nasdaq.com",
	}
}

// WithBaseURL overrides the page host, used by tests
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

var symbolRe = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// EarningsOn scrapes the earnings table for one calendar date. An empty
// day returns an empty slice, not an error.
func (c *Client) EarningsOn(ctx context.Context, date time.Time) ([]contracts.CatalystEvent, error) {
	pageURL := fmt.Sprintf("%s/market-activity/earnings?date=%s", c.baseURL, date.Format("2006-01-02"))

	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Accept":     "text/html",
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, pageURL, headers)
	if err != nil {
		return nil, fmt.Errorf("earnings page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("earnings page status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read earnings page: %w", err)
	}

	events := c.parseEarningsHTML(string(body), date)

	c.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"count": len(events),
	}).Debug("Scraped earnings calendar")

	return events, nil
}

// parseEarningsHTML extracts one event per table row. Expected columns:
// time | symbol | company | market cap | fiscal quarter | EPS consensus
func (c *Client) parseEarningsHTML(html string, date time.Time) []contracts.CatalystEvent {
	var events []contracts.CatalystEvent

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return events
	}

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		timing := parseTiming(cells.Eq(0))
		symbol := strings.TrimSpace(cells.Eq(1).Text())
		company := strings.TrimSpace(cells.Eq(2).Text())
		if !symbolRe.MatchString(symbol) {
			return
		}

		event := contracts.CatalystEvent{
			Date:         date,
			Kind:         contracts.EventEarnings,
			Symbols:      []string{symbol},
			Description:  fmt.Sprintf("%s (%s) earnings", company, symbol),
			ReportTiming: timing,
		}

		if cells.Length() >= 6 {
			if eps, ok := parseConsensus(cells.Eq(5).Text()); ok {
				event.Consensus = &eps
			}
		}

		events = append(events, event)
	})

	return events
}

// parseTiming maps the time-of-day cell to "bmo" / "amc"
func parseTiming(cell *goquery.Selection) string {
	text := strings.ToLower(cell.Text())
	class, _ := cell.Find("span").Attr("class")

	switch {
	case strings.Contains(class, "pre-market"), strings.Contains(text, "pre-market"):
		return "bmo"
	case strings.Contains(class, "after-hours"), strings.Contains(text, "after-hours"):
		return "amc"
	default:
		return ""
	}
}

func parseConsensus(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		s = strings.TrimPrefix(s, "$")
	}
	if s == "" || s == "-" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
