// Package alphavantage fetches US equity market data from Alpha Vantage.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/redis"
)

// Client handles communication with the Alpha Vantage API
// ⭐ SSOT: Alpha Vantage 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	cfg        config.AlphaVantageConfig

	// Free tier allows 5 calls/min; the local limiter smooths bursts
	// before the shared Redis window is consulted by httputil.
	limiter *rate.Limiter
}

// NewClient creates a new Alpha Vantage client
func NewClient(cfg config.AlphaVantageConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	interval := cfg.RateWindow / time.Duration(max(cfg.RateLimit, 1))
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

// getJSON performs one rate-limited API call and decodes the response
func (c *Client) getJSON(ctx context.Context, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	params.Set("apikey", c.cfg.APIKey)
	apiURL := c.cfg.BaseURL + "?" + params.Encode()

	resp, err := c.httpClient.Get(ctx, apiURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Throttling and bad-symbol responses come back as 200 with a
	// message body instead of data.
	var apiErr struct {
		Note         string `json:"Note"`
		Information  string `json:"Information"`
		ErrorMessage string `json:"Error Message"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		if apiErr.Note != "" || apiErr.Information != "" {
			return fmt.Errorf("api throttled: %s%s", apiErr.Note, apiErr.Information)
		}
		if apiErr.ErrorMessage != "" {
			return fmt.Errorf("api error: %s", apiErr.ErrorMessage)
		}
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
