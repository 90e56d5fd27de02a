package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/wonny/alpha/internal/contracts"
)

const (
	dailyLookback = 20 // sessions for the average-volume window
	smaPeriod     = 20
	rsiPeriod     = 14
)

type dailySeriesResponse struct {
	Series map[string]struct {
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

type rsiResponse struct {
	Analysis map[string]struct {
		RSI string `json:"RSI"`
	} `json:"Technical Analysis: RSI"`
}

type smaResponse struct {
	Analysis map[string]struct {
		SMA string `json:"SMA"`
	} `json:"Technical Analysis: SMA"`
}

type overviewResponse struct {
	Symbol    string `json:"Symbol"`
	MarketCap string `json:"MarketCapitalization"`
}

// Quote assembles a full indicator snapshot for one symbol. Four API calls
// per symbol, so results are cached under the configured TTL.
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	cacheKey := "quote:" + symbol
	if c.cache != nil {
		var cached contracts.Quote
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	quote := &contracts.Quote{Symbol: symbol}

	if err := c.fillDaily(ctx, symbol, quote); err != nil {
		return nil, fmt.Errorf("daily series for %s: %w", symbol, err)
	}
	if err := c.fillRSI(ctx, symbol, quote); err != nil {
		return nil, fmt.Errorf("rsi for %s: %w", symbol, err)
	}
	if err := c.fillSMA(ctx, symbol, quote); err != nil {
		return nil, fmt.Errorf("sma for %s: %w", symbol, err)
	}
	// Market cap is optional input (unknown stays nil); a failed overview
	// call must not sink the whole quote.
	if err := c.fillMarketCap(ctx, symbol, quote); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Market cap lookup failed, leaving unknown")
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, quote, c.cfg.CacheTTL); err != nil {
			c.logger.WithError(err).Warn("Quote cache write failed")
		}
	}

	return quote, nil
}

func (c *Client) fillDaily(ctx context.Context, symbol string, quote *contracts.Quote) error {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")

	var resp dailySeriesResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return err
	}
	if len(resp.Series) == 0 {
		return fmt.Errorf("empty daily series")
	}

	dates := sortedDatesDesc(mapKeys(resp.Series))

	latest := resp.Series[dates[0]]
	price, err := strconv.ParseFloat(latest.Close, 64)
	if err != nil {
		return fmt.Errorf("parse close %q: %w", latest.Close, err)
	}
	volume, err := strconv.ParseFloat(latest.Volume, 64)
	if err != nil {
		return fmt.Errorf("parse volume %q: %w", latest.Volume, err)
	}

	quote.Price = price
	quote.Volume = volume
	// Zero volume on the latest session means trading was halted
	quote.Halted = volume == 0
	if asOf, err := time.Parse("2006-01-02", dates[0]); err == nil {
		quote.AsOf = asOf
	}

	var sum float64
	var n int
	for _, d := range dates[1:] { // average excludes the current session
		if n == dailyLookback {
			break
		}
		v, err := strconv.ParseFloat(resp.Series[d].Volume, 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n > 0 {
		quote.AvgVolume20 = sum / float64(n)
	}

	return nil
}

func (c *Client) fillRSI(ctx context.Context, symbol string, quote *contracts.Quote) error {
	params := url.Values{}
	params.Set("function", "RSI")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", strconv.Itoa(rsiPeriod))
	params.Set("series_type", "close")

	var resp rsiResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return err
	}
	if len(resp.Analysis) < 2 {
		return fmt.Errorf("need two RSI sessions, got %d", len(resp.Analysis))
	}

	dates := sortedDatesDesc(mapKeys(resp.Analysis))

	current, err := strconv.ParseFloat(resp.Analysis[dates[0]].RSI, 64)
	if err != nil {
		return fmt.Errorf("parse RSI %q: %w", resp.Analysis[dates[0]].RSI, err)
	}
	previous, err := strconv.ParseFloat(resp.Analysis[dates[1]].RSI, 64)
	if err != nil {
		return fmt.Errorf("parse previous RSI %q: %w", resp.Analysis[dates[1]].RSI, err)
	}

	quote.RSI = current
	quote.PrevRSI = previous
	return nil
}

func (c *Client) fillSMA(ctx context.Context, symbol string, quote *contracts.Quote) error {
	params := url.Values{}
	params.Set("function", "SMA")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", strconv.Itoa(smaPeriod))
	params.Set("series_type", "close")

	var resp smaResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return err
	}
	if len(resp.Analysis) == 0 {
		return fmt.Errorf("empty SMA series")
	}

	dates := sortedDatesDesc(mapKeys(resp.Analysis))

	sma, err := strconv.ParseFloat(resp.Analysis[dates[0]].SMA, 64)
	if err != nil {
		return fmt.Errorf("parse SMA %q: %w", resp.Analysis[dates[0]].SMA, err)
	}

	quote.SMA20 = sma
	return nil
}

func (c *Client) fillMarketCap(ctx context.Context, symbol string, quote *contracts.Quote) error {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)

	var resp overviewResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return err
	}

	// ETFs and unknown listings report "None" or an empty string
	cap, err := strconv.ParseFloat(resp.MarketCap, 64)
	if err != nil || cap <= 0 {
		return nil
	}

	quote.MarketCap = &cap
	return nil
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// sortedDatesDesc orders YYYY-MM-DD keys newest first
func sortedDatesDesc(dates []string) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
