// Package report runs the per-message pipeline: resolve, fetch the quote,
// derive metrics and render the reply text.
package report

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
	"github.com/bobmcallan/kabutaro/internal/services/metrics"
)

// Service implements ReportService
type Service struct {
	resolver interfaces.ResolverService
	quotes   interfaces.QuoteClient
	registry interfaces.Registry
	market   common.MarketConfig
	logger   arbor.ILogger
}

// NewService creates a new report service
func NewService(resolver interfaces.ResolverService, quotes interfaces.QuoteClient, reg interfaces.Registry, market common.MarketConfig, logger arbor.ILogger) *Service {
	return &Service{
		resolver: resolver,
		quotes:   quotes,
		registry: reg,
		market:   market,
		logger:   logger,
	}
}

// Reply returns the reply text for one inbound message.
func (s *Service) Reply(ctx context.Context, text string) string {
	return s.Lookup(ctx, text).Text
}

// Lookup runs the full pipeline and keeps each stage's result.
func (s *Service) Lookup(ctx context.Context, input string) *interfaces.StockLookup {
	result := &interfaces.StockLookup{Input: input}

	if common.IsBlank(input) {
		return fail(result, interfaces.LookupBlank)
	}

	result.Resolution = s.resolver.Resolve(ctx, strings.TrimSpace(input))
	if !result.Resolution.Found() {
		s.logger.Info().Str("input", input).Msg("Input not resolved")
		return fail(result, interfaces.LookupNotFound)
	}

	symbol := result.Resolution.Symbol
	name := s.displayName(symbol)

	start := time.Now()
	payload, err := s.quotes.GetQuote(ctx, symbol, models.DefaultQuoteModules)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		return fail(result, interfaces.LookupFetchFailed)
	}

	report := metrics.DeriveReport(payload, name, symbol)
	result.Report = &report
	result.Text = FormatReport(report)

	s.logger.Info().
		Str("symbol", symbol).
		Str("source", result.Resolution.Source).
		Str("per_source", report.PERSource).
		Dur("elapsed", time.Since(start)).
		Msg("Stock report built")

	return result
}

// displayName prefers the registry's canonical name over the bare symbol.
func (s *Service) displayName(symbol string) string {
	if entry, ok := s.registry.LookupSymbol(symbol, s.market.Suffix); ok {
		return entry.Name
	}
	return symbol
}

func fail(result *interfaces.StockLookup, kind string) *interfaces.StockLookup {
	result.Failure = kind
	result.Text = FormatFailure(kind)
	return result
}

var _ interfaces.ReportService = (*Service)(nil)
