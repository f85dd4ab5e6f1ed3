package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// Service implements RankingService
type Service struct {
	movers    interfaces.RankingClient
	messenger interfaces.MessagingClient
	kind      models.MoverKind
	limit     int
	logger    arbor.ILogger
}

// NewService creates a ranking service. kind and limit are the defaults
// used by Push.
func NewService(movers interfaces.RankingClient, messenger interfaces.MessagingClient, kind models.MoverKind, limit int, logger arbor.ILogger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		movers:    movers,
		messenger: messenger,
		kind:      kind,
		limit:     limit,
		logger:    logger,
	}
}

// Digest fetches the movers list and renders it. A fetch error renders
// MessageRankingFailed.
func (s *Service) Digest(ctx context.Context, kind models.MoverKind, limit int) string {
	if kind == "" {
		kind = s.kind
	}
	if limit <= 0 {
		limit = s.limit
	}

	start := time.Now()
	entries, err := s.movers.GetMovers(ctx, kind)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Ranking fetch failed")
		return MessageRankingFailed
	}

	s.logger.Debug().
		Str("kind", string(kind)).
		Int("entries", len(entries)).
		Dur("elapsed", time.Since(start)).
		Msg("Ranking fetched")

	return BuildRanking(entries, limit, kind)
}

// Push sends the default digest to a user, with header on its own line
// above it when non-empty.
func (s *Service) Push(ctx context.Context, to, header string) error {
	if to == "" {
		return fmt.Errorf("push target not configured")
	}

	text := s.Digest(ctx, s.kind, s.limit)
	if header != "" {
		text = header + "\n" + text
	}

	if err := s.messenger.Push(ctx, to, text); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Ranking push failed")
		return fmt.Errorf("push ranking: %w", err)
	}

	s.logger.Info().Str("to", to).Str("kind", string(s.kind)).Msg("Ranking pushed")
	return nil
}

var _ interfaces.RankingService = (*Service)(nil)
