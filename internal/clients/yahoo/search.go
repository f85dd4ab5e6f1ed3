package yahoo

import (
	"context"
	"net/url"
	"strconv"

	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

const searchQuotesCount = 10

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Exchange  string `json:"exchange"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search runs a Yahoo Finance full-text search and returns the quote hits in
// the order Yahoo ranked them.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchQuote, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(searchQuotesCount))
	params.Set("newsCount", "0")
	params.Set("lang", "ja-JP")
	params.Set("region", "JP")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	quotes := make([]models.SearchQuote, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		quotes = append(quotes, models.SearchQuote{
			Symbol:    q.Symbol,
			Exchange:  q.Exchange,
			Name:      name,
			QuoteType: q.QuoteType,
		})
	}

	return quotes, nil
}

var _ interfaces.SearchClient = (*Client)(nil)
