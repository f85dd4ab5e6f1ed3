// Package yahoojp scrapes the Yahoo!ファイナンス ranking pages.
package yahoojp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

const (
	DefaultBaseURL   = "https://finance.yahoo.co.jp"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 1

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var rankingPaths = map[models.MoverKind]string{
	models.MoversGainers: "/stocks/ranking/up",
	models.MoversLosers:  "/stocks/ranking/down",
	models.MoversVolume:  "/stocks/ranking/volume",
}

var (
	percentPattern = regexp.MustCompile(`([+\-−]?\d+(?:\.\d+)?)\s*%`)
	symbolPattern  = regexp.MustCompile(`/quote/([0-9A-Z]{4}\.T)`)
)

// Client scrapes ranking tables from Yahoo!ファイナンス
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the site base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
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

// NewClient creates a new ranking scraper
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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

// APIError represents a non-OK page response
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoojp error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// GetMovers scrapes the ranking table for kind. Rows appear in page order.
func (c *Client) GetMovers(ctx context.Context, kind models.MoverKind) ([]models.RankingEntry, error) {
	path, ok := rankingPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported mover kind %q", kind)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?market=all", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Yahoo JP ranking request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body)), Endpoint: path}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking page: %w", err)
	}

	entries := parseRanking(doc)
	if len(entries) == 0 {
		c.logger.Warn().Str("path", path).Msg("Ranking table not found or empty")
	}
	return entries, nil
}

// parseRanking extracts one entry per table row that links to a quote.
func parseRanking(doc *goquery.Document) []models.RankingEntry {
	var entries []models.RankingEntry

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		label := strings.TrimSpace(link.Text())
		if label == "" {
			return
		}

		var symbol string
		if href, ok := link.Attr("href"); ok {
			if m := symbolPattern.FindStringSubmatch(href); m != nil {
				symbol = m[1]
			}
		}

		change := models.None()
		if m := percentPattern.FindStringSubmatch(row.Text()); m != nil {
			s := strings.Replace(m[1], "−", "-", 1)
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				change = models.Some(v)
			}
		}

		entries = append(entries, models.RankingEntry{
			Rank:          len(entries) + 1,
			Label:         label,
			Symbol:        symbol,
			ChangePercent: change,
		})
	})

	return entries
}

var _ interfaces.RankingClient = (*Client)(nil)
