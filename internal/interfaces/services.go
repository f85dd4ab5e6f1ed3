package interfaces

import (
	"context"

	"github.com/bobmcallan/kabutaro/internal/models"
)

// Registry is the read-only static ticker registry.
type Registry interface {
	// MatchByName finds an entry by normalized name, exact match first
	MatchByName(normalized string) (models.TickerEntry, bool)

	// LookupCode finds an entry by its 4-digit code
	LookupCode(code string) (models.TickerEntry, bool)

	// LookupSymbol finds an entry by exchange symbol, e.g. "7974.T" with suffix ".T"
	LookupSymbol(symbol, suffix string) (models.TickerEntry, bool)

	// Entries returns the registry in file order
	Entries() []models.TickerEntry
}

// ResolverService turns free-form input into an exchange symbol.
type ResolverService interface {
	// Resolve never fails; an unresolvable input yields a Resolution with no symbol
	Resolve(ctx context.Context, input string) models.Resolution
}

// ReportService produces the stock summary for one inbound message.
type ReportService interface {
	// Reply returns the text to send back for a user message
	Reply(ctx context.Context, text string) string

	// Lookup runs the same pipeline as Reply and keeps the intermediate results
	Lookup(ctx context.Context, input string) *StockLookup
}

// StockLookup is the structured result behind a reply. Report is nil when
// the input was blank, did not resolve, or the quote fetch failed.
type StockLookup struct {
	Input      string                `json:"input"`
	Resolution models.Resolution     `json:"resolution"`
	Report     *models.MetricsReport `json:"report,omitempty"`
	Failure    string                `json:"failure,omitempty"`
	Text       string                `json:"text"`
}

// Lookup failure kinds
const (
	LookupBlank       = "blank"
	LookupNotFound    = "not_found"
	LookupFetchFailed = "fetch_failed"
)

// RankingService builds and delivers the movers digest.
type RankingService interface {
	// Digest fetches movers and renders the ranking text; failures render the fixed failure message
	Digest(ctx context.Context, kind models.MoverKind, limit int) string

	// Push sends the digest to a user, prefixing it with header when non-empty
	Push(ctx context.Context, to, header string) error
}
