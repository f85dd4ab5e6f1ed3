// Package search provides an in-memory full-text index over the ticker
// registry. It implements the Search collaborator without network access.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// DefaultMaxResults caps the hits returned per query.
const DefaultMaxResults = 10

// document is the indexed form of a registry entry.
type document struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`  // normalized, analyzed with the CJK bigram analyzer
	Label string  `json:"label"` // registry name as listed
	Order float64 `json:"order"`
}

// Index is a bleve in-memory index of the registry.
type Index struct {
	index      bleve.Index
	suffix     string
	exchange   string
	maxResults int
	logger     arbor.ILogger
}

// Option configures the index
type Option func(*Index)

// WithLogger sets the logger
func WithLogger(logger arbor.ILogger) Option {
	return func(i *Index) {
		i.logger = logger
	}
}

// WithMaxResults sets the hit cap
func WithMaxResults(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.maxResults = n
		}
	}
}

// NewIndex indexes entries in memory. Hits are reported with suffix
// appended to the code and exchange as their exchange tag, so the
// resolver's market filter accepts them.
func NewIndex(entries []models.TickerEntry, suffix, exchange string, opts ...Option) (*Index, error) {
	idx := &Index{
		suffix:     suffix,
		exchange:   exchange,
		maxResults: DefaultMaxResults,
		logger:     common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(idx)
	}

	bi, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	start := time.Now()
	batch := bi.NewBatch()
	for i, e := range entries {
		doc := document{
			Code:  e.Code,
			Name:  common.Normalize(e.Name),
			Label: e.Name,
			Order: float64(i),
		}
		// Duplicate codes keep the first listed entry
		if err := batch.Index(fmt.Sprintf("%s-%d", e.Code, i), doc); err != nil {
			return nil, fmt.Errorf("failed to add %s to batch: %w", e.Code, err)
		}
	}
	if err := bi.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	idx.index = bi
	idx.logger.Info().
		Int("entries", len(entries)).
		Dur("elapsed", time.Since(start)).
		Msg("Registry search index built")

	return idx, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = cjk.AnalyzerName
	nameField.Store = false
	docMapping.AddFieldMappingsAt("name", nameField)

	codeField := bleve.NewTextFieldMapping()
	codeField.Analyzer = keyword.Name
	codeField.Store = true
	docMapping.AddFieldMappingsAt("code", codeField)

	labelField := bleve.NewTextFieldMapping()
	labelField.Index = false
	labelField.Store = true
	docMapping.AddFieldMappingsAt("label", labelField)

	orderField := bleve.NewNumericFieldMapping()
	orderField.Store = true
	docMapping.AddFieldMappingsAt("order", orderField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Search matches query against codes and CJK bigrams of the normalized
// names. Hits are ordered by score, then by registry order.
func (i *Index) Search(ctx context.Context, text string) ([]models.SearchQuote, error) {
	q := common.Normalize(text)
	if q == "" {
		return nil, nil
	}

	codeQuery := bleve.NewTermQuery(q)
	codeQuery.SetField("code")
	codeQuery.SetBoost(10.0)

	nameQuery := bleve.NewMatchQuery(q)
	nameQuery.SetField("name")
	nameQuery.Analyzer = cjk.AnalyzerName
	nameQuery.SetOperator(query.MatchQueryOperatorAnd)

	searchQuery := bleve.NewDisjunctionQuery(codeQuery, nameQuery)

	req := bleve.NewSearchRequestOptions(searchQuery, i.maxResults, 0, false)
	req.Fields = []string{"code", "label"}
	req.SortBy([]string{"-_score", "order"})

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("index search %q: %w", text, err)
	}

	quotes := make([]models.SearchQuote, 0, len(res.Hits))
	for _, hit := range res.Hits {
		code := fieldString(hit.Fields, "code")
		if code == "" {
			continue
		}
		quotes = append(quotes, models.SearchQuote{
			Symbol:    code + i.suffix,
			Exchange:  i.exchange,
			Name:      fieldString(hit.Fields, "label"),
			QuoteType: "EQUITY",
		})
	}

	i.logger.Debug().
		Str("query", q).
		Int("hits", len(quotes)).
		Msg("Registry index search")

	return quotes, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return strings.TrimSpace(val)
	}
	return ""
}

var _ interfaces.SearchClient = (*Index)(nil)
