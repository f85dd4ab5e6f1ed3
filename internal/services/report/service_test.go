package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
	"github.com/bobmcallan/kabutaro/internal/registry"
)

var tokyo = common.MarketConfig{Suffix: ".T", Exchange: "JPX"}

type mockResolver struct {
	t      *testing.T
	result models.Resolution
	forbid bool
	inputs []string
}

func (m *mockResolver) Resolve(_ context.Context, input string) models.Resolution {
	if m.forbid {
		m.t.Fatalf("resolver must not be called (input %q)", input)
	}
	m.inputs = append(m.inputs, input)
	return m.result
}

type mockQuotes struct {
	t       *testing.T
	payload *models.QuotePayload
	err     error
	forbid  bool
	symbols []string
	modules []string
}

func (m *mockQuotes) GetQuote(_ context.Context, symbol string, modules []string) (*models.QuotePayload, error) {
	if m.forbid {
		m.t.Fatalf("quote client must not be called (symbol %q)", symbol)
	}
	m.symbols = append(m.symbols, symbol)
	m.modules = modules
	return m.payload, m.err
}

func newTestService(resolver interfaces.ResolverService, quotes interfaces.QuoteClient) *Service {
	reg := registry.New([]models.TickerEntry{{Code: "7974", Name: "任天堂"}})
	return NewService(resolver, quotes, reg, tokyo, common.NewSilentLogger())
}

func TestReply_BlankInputSkipsCollaborators(t *testing.T) {
	svc := newTestService(&mockResolver{t: t, forbid: true}, &mockQuotes{t: t, forbid: true})

	for _, in := range []string{"", "   ", "　", "\n\t"} {
		assert.Equal(t, MessageBlankInput, svc.Reply(context.Background(), in))
	}
}

func TestReply_NotFound(t *testing.T) {
	svc := newTestService(&mockResolver{t: t}, &mockQuotes{t: t, forbid: true})

	lookup := svc.Lookup(context.Background(), "存在しない")
	assert.Equal(t, interfaces.LookupNotFound, lookup.Failure)
	assert.Equal(t, MessageNotFound, lookup.Text)
	assert.Nil(t, lookup.Report)
}

func TestReply_QuoteFailure(t *testing.T) {
	for _, symbol := range []string{"7974.T", "1234.T", "6758.T"} {
		quotes := &mockQuotes{t: t, err: errors.New("quoteSummary 404")}
		svc := newTestService(&mockResolver{t: t, result: models.Resolution{Symbol: symbol, Source: models.ResolvedByCode}}, quotes)

		lookup := svc.Lookup(context.Background(), "x")
		assert.Equal(t, interfaces.LookupFetchFailed, lookup.Failure)
		assert.Equal(t, MessageFetchFailed, lookup.Text)
		assert.Equal(t, []string{symbol}, quotes.symbols)
	}
}

func TestReply_Report(t *testing.T) {
	resolver := &mockResolver{t: t, result: models.Resolution{Symbol: "7974.T", Source: models.ResolvedByRegistry}}
	quotes := &mockQuotes{t: t, payload: &models.QuotePayload{
		Price: models.PriceModule{
			RegularMarketPrice: models.Some(8000),
			MarketCap:          models.Some(1.5e12),
		},
		DefaultKeyStatistics: models.KeyStatisticsModule{
			TrailingPE:  models.Some(25),
			TrailingEps: models.Some(320),
			PriceToBook: models.Some(4),
			BookValue:   models.Some(1850.4),
		},
		SummaryDetail: models.SummaryDetailModule{
			DividendRate:  models.Some(200),
			DividendYield: models.Some(0.025),
		},
		FinancialData: models.FinancialDataModule{
			ReturnOnEquity: models.Some(0.18),
		},
	}}
	svc := newTestService(resolver, quotes)

	got := svc.Reply(context.Background(), "  任天堂 ")

	want := "📈 任天堂\n" +
		"株価：8000円\n" +
		"PER：25.00倍　PBR：4.00倍\n" +
		"EPS：320　配当金：200円\n" +
		"利回り：2.50%\n" +
		"ROE：18.00%\n" +
		"BPS：1850　時価総額：1.50兆円"
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"任天堂"}, resolver.inputs, "resolver receives trimmed input")
	assert.Equal(t, models.DefaultQuoteModules, quotes.modules)
}

func TestLookup_DisplayNameFallsBackToSymbol(t *testing.T) {
	resolver := &mockResolver{t: t, result: models.Resolution{Symbol: "6758.T", Source: models.ResolvedBySearch}}
	quotes := &mockQuotes{t: t, payload: &models.QuotePayload{}}
	svc := newTestService(resolver, quotes)

	lookup := svc.Lookup(context.Background(), "sony")
	require.NotNil(t, lookup.Report)
	assert.Equal(t, "6758.T", lookup.Report.Name)
	assert.Contains(t, lookup.Text, "📈 6758.T\n")
	assert.Contains(t, lookup.Text, "PER：-倍　PBR：-倍")
}

func TestFormatFailure(t *testing.T) {
	assert.Equal(t, MessageBlankInput, FormatFailure(interfaces.LookupBlank))
	assert.Equal(t, MessageNotFound, FormatFailure(interfaces.LookupNotFound))
	assert.Equal(t, MessageFetchFailed, FormatFailure(interfaces.LookupFetchFailed))
}
