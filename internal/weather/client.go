// Package weather implements the outbound forecast fetch against an
// OpenWeather-compatible provider.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
)

// DefaultBaseURL is the provider endpoint used when none is configured.
const DefaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"

// Config holds provider client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RPS caps outbound requests per second. Zero disables limiting.
	RPS float64
}

// Client fetches raw forecast payloads. It implements dialog.Fetcher.
//
// The client performs no retries and no response validation: the payload
// body is returned as-is for any HTTP status, matching the contract that
// downstream formatting tolerates unusable payloads. Only transport-level
// failures produce an error.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a provider client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("weather: api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Forecast issues the keyed GET and returns the response body verbatim.
func (c *Client) Forecast(ctx context.Context, q dialog.ForecastQuery) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("weather: rate limit wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Latitude, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(q.Longitude, 'f', 4, 64))
	params.Set("exclude", "minutely,hourly,alerts")
	params.Set("lang", q.Lang)
	params.Set("units", q.Units)
	params.Set("appid", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("weather: building request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("weather: reading response: %w", err)
	}

	c.logger.Debug("provider fetch",
		zap.Int("status", resp.StatusCode),
		zap.Int("day_offset", q.DayOffset),
		zap.Duration("duration", time.Since(start)),
	)

	return string(body), nil
}
