package app

import (
	"fmt"

	"github.com/bobmcallan/kabutaro/internal/clients/financego"
	"github.com/bobmcallan/kabutaro/internal/clients/finnhub"
	"github.com/bobmcallan/kabutaro/internal/clients/line"
	"github.com/bobmcallan/kabutaro/internal/clients/yahoo"
	"github.com/bobmcallan/kabutaro/internal/clients/yahoojp"
	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/search"
)

// initClients builds the collaborators selected by [clients.*] and [ranking].
func (a *App) initClients() error {
	cfg := a.Config.Clients
	logger := a.Logger

	var yahooClient *yahoo.Client
	if cfg.Quote.Provider == common.ProviderYahoo || cfg.Search.Provider == common.ProviderYahoo {
		yahooClient = yahoo.NewClient(
			yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
			yahoo.WithCookieURL(cfg.Yahoo.CookieURL),
			yahoo.WithLogger(logger),
			yahoo.WithRateLimit(cfg.Yahoo.RateLimit),
			yahoo.WithTimeout(cfg.Yahoo.GetTimeout()),
		)
	}

	switch cfg.Search.Provider {
	case common.ProviderYahoo:
		a.SearchClient = yahooClient
	case common.ProviderIndex:
		idx, err := search.NewIndex(a.Registry.Entries(), a.Config.Market.Suffix, a.Config.Market.Exchange,
			search.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("failed to build search index: %w", err)
		}
		a.SearchClient = idx
		a.closers = append(a.closers, idx.Close)
	default:
		return fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}

	switch cfg.Quote.Provider {
	case common.ProviderYahoo:
		a.QuoteClient = yahooClient
	case common.ProviderFinanceGo:
		a.QuoteClient = financego.NewClient(
			financego.WithLogger(logger),
			financego.WithRateLimit(cfg.Yahoo.RateLimit),
		)
	default:
		return fmt.Errorf("unknown quote provider %q", cfg.Quote.Provider)
	}

	switch a.Config.Ranking.Provider {
	case "yahoojp":
		a.RankingClient = yahoojp.NewClient(
			yahoojp.WithBaseURL(cfg.YahooJP.BaseURL),
			yahoojp.WithLogger(logger),
			yahoojp.WithRateLimit(cfg.YahooJP.RateLimit),
			yahoojp.WithTimeout(cfg.YahooJP.GetTimeout()),
		)
	default:
		a.RankingClient = finnhub.NewClient(cfg.Finnhub.APIKey,
			finnhub.WithBaseURL(cfg.Finnhub.BaseURL),
			finnhub.WithExchange(cfg.Finnhub.Exchange),
			finnhub.WithLogger(logger),
			finnhub.WithRateLimit(cfg.Finnhub.RateLimit),
			finnhub.WithTimeout(cfg.Finnhub.GetTimeout()),
		)
	}

	a.Messenger = line.NewClient(cfg.Line.ChannelAccessToken,
		line.WithBaseURL(cfg.Line.BaseURL),
		line.WithLogger(logger),
		line.WithRateLimit(cfg.Line.RateLimit),
		line.WithTimeout(cfg.Line.GetTimeout()),
	)

	return nil
}
