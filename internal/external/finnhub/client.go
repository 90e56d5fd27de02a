// Package finnhub fetches news-sentiment scores for US equities.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

// Client handles communication with the Finnhub API
// ⭐ SSOT: Finnhub 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.FinnhubConfig
}

// NewClient creates a new Finnhub client
func NewClient(cfg config.FinnhubConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

type sentimentResponse struct {
	Symbol string `json:"symbol"`
	// Aggregate news score in [0, 1]
	CompanyNewsScore    *float64 `json:"companyNewsScore"`
	SectorAverageScore  float64  `json:"sectorAverageNewsScore"`
	ArticlesInLastWeek  int      `json:"articlesInLastWeek"`
	WeeklyAverage       float64  `json:"weeklyAverage"`
}

// Sentiment returns the aggregate news-sentiment score for one symbol.
// A symbol without coverage returns ErrUnavailable so the risk engine
// can mark the holding indeterminate instead of treating it as neutral.
func (c *Client) Sentiment(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.cfg.APIKey)

	apiURL := fmt.Sprintf("%s/news-sentiment?%s", c.cfg.BaseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, apiURL)
	if err != nil {
		return 0, fmt.Errorf("sentiment request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("sentiment for %s: status %d: %s", symbol, resp.StatusCode, string(body))
	}

	var sentResp sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&sentResp); err != nil {
		return 0, fmt.Errorf("decode sentiment for %s: %w", symbol, err)
	}

	if sentResp.CompanyNewsScore == nil {
		return 0, fmt.Errorf("no news coverage for %s: %w", symbol, contracts.ErrUnavailable)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"score":    *sentResp.CompanyNewsScore,
		"articles": sentResp.ArticlesInLastWeek,
	}).Debug("Fetched news sentiment")

	return *sentResp.CompanyNewsScore, nil
}
