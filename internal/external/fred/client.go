// Package fred fetches macro indicator series from the St. Louis Fed
// FRED API.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

// seriesIDs maps indicator names to FRED series identifiers
var seriesIDs = map[string]string{
	contracts.MacroDollarIndex:  "DTWEXBGS",     // broad trade-weighted dollar index
	contracts.MacroTenYearYield: "DGS10",        // 10-year treasury constant maturity
	contracts.MacroCPI:          "CPIAUCSL",     // CPI all urban consumers
	contracts.MacroPCE:          "PCEPI",        // PCE price index
	contracts.MacroRateProb:     "EFFR",         // effective fed funds rate, probability proxy
	contracts.MacroGeoTension:   "GEPUCURRENT",  // global economic policy uncertainty
}

// geoTensionScale maps the uncertainty index's historical ceiling to 1.0
const geoTensionScale = 430.0

// Client handles communication with the FRED API
// ⭐ SSOT: FRED 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.FREDConfig
}

// NewClient creates a new FRED client
func NewClient(cfg config.FREDConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Series returns the two most recent published values for a named
// indicator. Unpublished placeholder observations (".") are skipped.
func (c *Client) Series(ctx context.Context, name string) (*contracts.MacroSeries, error) {
	seriesID, ok := seriesIDs[name]
	if !ok {
		return nil, fmt.Errorf("unknown macro series %q", name)
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.cfg.APIKey)
	params.Set("file_type", "json")
	params.Set("sort_order", "desc")
	params.Set("limit", "10")

	apiURL := fmt.Sprintf("%s/series/observations?%s", c.cfg.BaseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("observations request for %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("observations for %s: status %d: %s", seriesID, resp.StatusCode, string(body))
	}

	var obsResp observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&obsResp); err != nil {
		return nil, fmt.Errorf("decode observations for %s: %w", seriesID, err)
	}

	series := &contracts.MacroSeries{Name: name}
	found := 0
	for _, obs := range obsResp.Observations {
		if obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		switch found {
		case 0:
			series.Current = v
			if ts, err := time.Parse("2006-01-02", obs.Date); err == nil {
				series.Timestamp = ts
			}
		case 1:
			series.Previous = v
		}
		found++
		if found == 2 {
			break
		}
	}

	if found < 2 {
		return nil, fmt.Errorf("series %s: %w", seriesID, contracts.ErrUnavailable)
	}

	// The policy-uncertainty index runs roughly 50-430; downstream
	// consumers expect a [0,1] tension score.
	if name == contracts.MacroGeoTension {
		series.Current = math.Min(series.Current/geoTensionScale, 1)
		series.Previous = math.Min(series.Previous/geoTensionScale, 1)
	}

	c.logger.WithFields(map[string]interface{}{
		"series":   name,
		"current":  series.Current,
		"previous": series.Previous,
	}).Debug("Fetched macro series")

	return series, nil
}
