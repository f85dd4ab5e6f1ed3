// Package finnhub provides a client for the Finnhub market movers API
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

const (
	DefaultBaseURL   = "https://finnhub.io/api/v1"
	DefaultExchange  = "TO"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 1 // requests per second
)

// moverPaths maps a mover kind to its Finnhub endpoint.
var moverPaths = map[models.MoverKind]string{
	models.MoversGainers: "/stock/top-gainers",
	models.MoversLosers:  "/stock/top-losers",
	models.MoversVolume:  "/stock/most-active",
}

// Client is a Finnhub API client
type Client struct {
	baseURL    string
	apiKey     string
	exchange   string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithExchange sets the exchange code passed to the movers endpoints
func WithExchange(exchange string) ClientOption {
	return func(c *Client) {
		c.exchange = exchange
	}
}

// WithLogger sets the logger
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		exchange: DefaultExchange,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a GET request to the Finnhub API
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Finnhub API request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type moverResponse struct {
	Symbol        string        `json:"symbol"`
	Description   string        `json:"description"`
	ChangePercent models.Number `json:"changePercent"`
}

// GetMovers returns the movers list for kind in Finnhub's order.
func (c *Client) GetMovers(ctx context.Context, kind models.MoverKind) ([]models.RankingEntry, error) {
	path, ok := moverPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported mover kind %q", kind)
	}

	params := url.Values{}
	params.Set("exchange", c.exchange)

	var resp []moverResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	entries := make([]models.RankingEntry, 0, len(resp))
	for i, m := range resp {
		label := strings.TrimSpace(m.Description)
		if label == "" {
			label = m.Symbol
		}
		entries = append(entries, models.RankingEntry{
			Rank:          i + 1,
			Label:         label,
			Symbol:        m.Symbol,
			ChangePercent: m.ChangePercent,
		})
	}

	return entries, nil
}

var _ interfaces.RankingClient = (*Client)(nil)
