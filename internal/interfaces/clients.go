// Package interfaces defines service contracts for Kabutaro
package interfaces

import (
	"context"

	"github.com/bobmcallan/kabutaro/internal/models"
)

// SearchClient is the full-text Search collaborator used as the last
// resolution step.
type SearchClient interface {
	// Search returns candidate quotes for a free-text query, best match first
	Search(ctx context.Context, query string) ([]models.SearchQuote, error)
}

// QuoteClient is the Quote collaborator.
type QuoteClient interface {
	// GetQuote retrieves the requested modules for an exchange symbol
	GetQuote(ctx context.Context, symbol string, modules []string) (*models.QuotePayload, error)
}

// RankingClient is the Ranking collaborator.
type RankingClient interface {
	// GetMovers returns the movers list in provider order
	GetMovers(ctx context.Context, kind models.MoverKind) ([]models.RankingEntry, error)
}

// MessagingClient sends text to chat users.
type MessagingClient interface {
	// Reply answers an inbound event using its reply token
	Reply(ctx context.Context, replyToken, text string) error

	// Push sends an unsolicited message to a user
	Push(ctx context.Context, to, text string) error
}
