package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuote fetches the quoteSummary modules for a symbol. A rejected crumb
// triggers one re-authentication and retry.
func (c *Client) GetQuote(ctx context.Context, symbol string, modules []string) (*models.QuotePayload, error) {
	if len(modules) == 0 {
		modules = models.DefaultQuoteModules
	}

	payload, err := c.fetchQuoteSummary(ctx, symbol, modules)
	if err != nil && isAuthError(err) {
		c.logger.Info().Str("symbol", symbol).Msg("Yahoo crumb rejected, refreshing session")
		c.resetSession()
		payload, err = c.fetchQuoteSummary(ctx, symbol, modules)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string, modules []string) (*models.QuotePayload, error) {
	crumb, err := c.getCrumb(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))
	params.Set("crumb", crumb)

	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)

	var resp quoteSummaryResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if e := resp.QuoteSummary.Error; e != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: e.Code + ": " + e.Description, Endpoint: path}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary for %s", symbol)
	}

	var payload models.QuotePayload
	if err := json.Unmarshal(resp.QuoteSummary.Result[0], &payload); err != nil {
		return nil, fmt.Errorf("failed to decode quote summary for %s: %w", symbol, err)
	}

	return &payload, nil
}

var _ interfaces.QuoteClient = (*Client)(nil)
