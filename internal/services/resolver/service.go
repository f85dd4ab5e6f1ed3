// Package resolver turns free-form user input into an exchange symbol.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
	"github.com/bobmcallan/kabutaro/internal/registry"
)

// Service resolves input by code, then registry name, then search.
type Service struct {
	registry interfaces.Registry
	search   interfaces.SearchClient
	market   common.MarketConfig
	logger   arbor.ILogger
}

// NewService creates a resolver. search may be nil, in which case the
// fallback step always yields not-found.
func NewService(reg interfaces.Registry, search interfaces.SearchClient, market common.MarketConfig, logger arbor.ILogger) *Service {
	return &Service{
		registry: reg,
		search:   search,
		market:   market,
		logger:   logger,
	}
}

// Resolve applies the first matching rule:
//  1. blank input is not-found
//  2. a normalized 4-digit code gets the market suffix directly
//  3. a registry name match gets the market suffix on its code
//  4. the first search hit on the target exchange carrying the suffix
//
// Search errors are logged and reported as not-found.
func (s *Service) Resolve(ctx context.Context, input string) models.Resolution {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return models.Resolution{}
	}

	normalized := common.Normalize(trimmed)
	if normalized == "" {
		return models.Resolution{}
	}

	if registry.IsTickerCode(normalized) {
		return models.Resolution{Symbol: normalized + s.market.Suffix, Source: models.ResolvedByCode}
	}

	if entry, ok := s.registry.MatchByName(normalized); ok {
		return models.Resolution{Symbol: entry.Code + s.market.Suffix, Source: models.ResolvedByRegistry}
	}

	return s.searchFallback(ctx, normalized)
}

func (s *Service) searchFallback(ctx context.Context, normalized string) models.Resolution {
	if s.search == nil {
		return models.Resolution{}
	}

	start := time.Now()
	quotes, err := s.search.Search(ctx, normalized)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", normalized).Msg("Search failed, treating as not found")
		return models.Resolution{}
	}

	for _, q := range quotes {
		if q.Exchange == s.market.Exchange && strings.HasSuffix(q.Symbol, s.market.Suffix) {
			s.logger.Debug().
				Str("query", normalized).
				Str("symbol", q.Symbol).
				Dur("elapsed", time.Since(start)).
				Msg("Resolved by search")
			return models.Resolution{Symbol: q.Symbol, Source: models.ResolvedBySearch}
		}
	}

	s.logger.Debug().Str("query", normalized).Int("candidates", len(quotes)).Msg("No search hit on target market")
	return models.Resolution{}
}

var _ interfaces.ResolverService = (*Service)(nil)
