// Package yahoo fetches daily bars and delayed quotes from the Yahoo
// Finance v8 chart API. The client normalizes the payload into validated
// price series and resolves which close column is canonical; it makes one
// attempt per request with token-bucket pacing and leaves retry policy to
// the caller.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// ErrNoData marks a well-formed response that carries no usable bars:
// unknown symbol, empty range, or all-null closes.
var ErrNoData = errors.New("no price data returned")

// Config holds Yahoo client configuration.
type Config struct {
	BaseURL        string   `yaml:"base_url"`
	TimeoutSec     int      `yaml:"timeout_sec"`
	RequestsPerSec float64  `yaml:"requests_per_sec"`
	Burst          int      `yaml:"burst"`
	MaxConcurrent  int      `yaml:"max_concurrent"`
	UserAgent      string   `yaml:"user_agent"`
	PriceFields    []string `yaml:"price_fields"` // preference order, adjclose and/or close
}

// DefaultConfig returns the standard client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://query1.finance.yahoo.com",
		TimeoutSec:     10,
		RequestsPerSec: 4.0,
		Burst:          8,
		MaxConcurrent:  4,
		UserAgent:      "tradelab/1.0",
		PriceFields:    []string{string(PriceAdjClose), string(PriceClose)},
	}
}

// GetRequestTimeout returns the HTTP request timeout as a time.Duration.
func (c Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Client provides Yahoo chart API access with rate limiting.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	limiter     *rate.Limiter
	concurrency int
	prefs       []PriceField
	log         zerolog.Logger
}

// NewClient creates a Yahoo client, filling zero config fields with
// defaults. A concurrency cap below one falls back to the default as well;
// the batch semaphore needs a positive size. The configured price fields
// must parse; an empty list falls back to adjclose-then-close.
func NewClient(config Config) (*Client, error) {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.TimeoutSec == 0 {
		config.TimeoutSec = defaults.TimeoutSec
	}
	if config.RequestsPerSec == 0 {
		config.RequestsPerSec = defaults.RequestsPerSec
	}
	if config.Burst == 0 {
		config.Burst = defaults.Burst
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if len(config.PriceFields) == 0 {
		config.PriceFields = defaults.PriceFields
	}

	prefs := make([]PriceField, 0, len(config.PriceFields))
	for _, name := range config.PriceFields {
		field, err := ParsePriceField(name)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, series.ErrConfig)
		}
		prefs = append(prefs, field)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.GetRequestTimeout(),
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		userAgent:   config.UserAgent,
		limiter:     rate.NewLimiter(rate.Limit(config.RequestsPerSec), config.Burst),
		concurrency: config.MaxConcurrent,
		prefs:       prefs,
		log:         zerolog.Nop(),
	}, nil
}

// SetLogger attaches a logger for request-level debug output.
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// DailyHistory fetches daily bars for one symbol over [start, end). Bars
// with null or non-positive closes (exchange holidays, halted sessions) are
// skipped. The returned series is validated and oldest-first.
func (c *Client) DailyHistory(ctx context.Context, symbol string, start, end time.Time) (series.PriceSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", series.ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("range end %s not after start %s: %w",
			end.Format("2006-01-02"), start.Format("2006-01-02"), series.ErrConfig)
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", start.Unix()))
	params.Set("period2", fmt.Sprintf("%d", end.Unix()))
	params.Set("interval", "1d")
	params.Set("events", "div,split")

	resp, err := c.fetchChart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	ps, field, err := barsFromChart(symbol, resp, c.prefs)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("symbol", symbol).Int("bars", len(ps)).
		Str("price_field", string(field)).Msg("fetched daily history")
	return ps, nil
}

// DailyHistoryBatch fetches several symbols concurrently under one rate
// budget. Failures stay per-symbol in the error map; survivors land in the
// series map. Neither map contains the other's keys.
func (c *Client) DailyHistoryBatch(ctx context.Context, symbols []string, start, end time.Time) (map[string]series.PriceSeries, map[string]error) {
	bySymbol := make(map[string]series.PriceSeries, len(symbols))
	failures := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.concurrency)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ps, err := c.DailyHistory(ctx, symbol, start, end)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[symbol] = err
				return
			}
			bySymbol[symbol] = ps
		}(symbol)
	}
	wg.Wait()
	return bySymbol, failures
}

// Quote derives a delayed snapshot from the last two daily bars of a short
// range request.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	if symbol == "" {
		return Quote{}, fmt.Errorf("empty symbol: %w", series.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("range", "5d")
	params.Set("interval", "1d")

	resp, err := c.fetchChart(ctx, symbol, params)
	if err != nil {
		return Quote{}, err
	}
	ps, _, err := barsFromChart(symbol, resp, c.prefs)
	if err != nil {
		return Quote{}, err
	}
	if len(ps) < 2 {
		return Quote{}, fmt.Errorf("symbol %s: %d bars in quote range: %w", symbol, len(ps), ErrNoData)
	}

	last, prev := ps[len(ps)-1], ps[len(ps)-2]
	return Quote{
		Symbol:    strings.ToUpper(symbol),
		Price:     last.Close,
		Change:    last.Close - prev.Close,
		ChangePct: (last.Close - prev.Close) / prev.Close * 100,
		Currency:  resp.Chart.Result[0].Meta.Currency,
		At:        last.Time,
	}, nil
}

// fetchChart performs one rate-limited GET against the chart endpoint and
// decodes the envelope, surfacing payload-level errors.
func (c *Client) fetchChart(ctx context.Context, symbol string, params url.Values) (*chartResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: HTTP 404: %w", symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 120 {
			preview = preview[:120]
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, preview)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("unmarshal chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error %s: %s: %w",
			chart.Chart.Error.Code, chart.Chart.Error.Description, ErrNoData)
	}
	return &chart, nil
}

// barsFromChart converts a chart payload into a validated price series.
func barsFromChart(symbol string, chart *chartResponse, prefs []PriceField) (series.PriceSeries, PriceField, error) {
	closes, field, ok := chart.closeColumn(prefs)
	if !ok {
		return nil, "", fmt.Errorf("symbol %s: %w", symbol, ErrNoData)
	}
	stamps := chart.Chart.Result[0].Timestamp

	ps := make(series.PriceSeries, 0, len(stamps))
	for i, ts := range stamps {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		ps = append(ps, series.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}
	if len(ps) == 0 {
		return nil, "", fmt.Errorf("symbol %s: %w", symbol, ErrNoData)
	}
	if err := ps.Validate(); err != nil {
		return nil, "", fmt.Errorf("symbol %s: %w", symbol, err)
	}
	return ps, field, nil
}
