// Package financego adapts github.com/piquette/finance-go to the QuoteClient interface.
package financego

import (
	"context"
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

const DefaultRateLimit = 2

// Client serves quotes through the finance-go equity endpoint. finance-go
// reports missing numbers as zero, so zero is mapped to absent.
type Client struct {
	fetch   func(symbol string) (*finance.Equity, error)
	logger  arbor.ILogger
	limiter *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

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

// WithFetcher replaces the finance-go call, used by tests.
func WithFetcher(fetch func(symbol string) (*finance.Equity, error)) ClientOption {
	return func(c *Client) {
		c.fetch = fetch
	}
}

// NewClient creates a finance-go backed quote client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		fetch:   equity.Get,
		logger:  common.NewSilentLogger(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuote fetches the equity quote and maps it onto the quoteSummary
// module layout. The modules argument is ignored; the equity endpoint
// always returns the full field set.
func (c *Client) GetQuote(ctx context.Context, symbol string, _ []string) (*models.QuotePayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	eq, err := c.fetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go equity %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("finance-go equity %s: no result", symbol)
	}

	c.logger.Debug().Str("symbol", symbol).Float64("price", eq.RegularMarketPrice).Msg("finance-go quote")

	return toPayload(eq), nil
}

func nonZero(v float64) models.Number {
	if v == 0 {
		return models.None()
	}
	return models.Some(v)
}

func toPayload(eq *finance.Equity) *models.QuotePayload {
	p := &models.QuotePayload{}

	p.Price = models.PriceModule{
		Symbol:                     models.Text(eq.Symbol),
		LongName:                   models.Text(eq.LongName),
		ShortName:                  models.Text(eq.ShortName),
		Currency:                   models.Text(eq.CurrencyID),
		RegularMarketPrice:         nonZero(eq.RegularMarketPrice),
		RegularMarketChangePercent: nonZero(eq.RegularMarketChangePercent),
		MarketCap:                  nonZero(float64(eq.MarketCap)),
	}

	p.SummaryDetail = models.SummaryDetailModule{
		DividendRate:  nonZero(eq.TrailingAnnualDividendRate),
		DividendYield: nonZero(eq.TrailingAnnualDividendYield),
		TrailingPE:    nonZero(eq.TrailingPE),
		ForwardPE:     nonZero(eq.ForwardPE),
	}

	p.DefaultKeyStatistics = models.KeyStatisticsModule{
		TrailingPE:  nonZero(eq.TrailingPE),
		ForwardPE:   nonZero(eq.ForwardPE),
		TrailingEps: nonZero(eq.EpsTrailingTwelveMonths),
		ForwardEps:  nonZero(eq.EpsForward),
		PriceToBook: nonZero(eq.PriceToBook),
		BookValue:   nonZero(eq.BookValue),
	}

	p.FinancialData = models.FinancialDataModule{
		CurrentPrice: nonZero(eq.RegularMarketPrice),
		ForwardPE:    nonZero(eq.ForwardPE),
	}

	return p
}

var _ interfaces.QuoteClient = (*Client)(nil)
