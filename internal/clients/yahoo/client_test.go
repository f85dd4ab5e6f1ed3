package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bobmcallan/kabutaro/internal/models"
)

const quoteSummaryBody = `{"quoteSummary":{"result":[{
	"price":{"regularMarketPrice":{"raw":9000,"fmt":"9,000"},"marketCap":{"raw":11700000000000},"longName":"Nintendo Co., Ltd."},
	"summaryDetail":{"dividendRate":{"raw":200},"dividendYield":{"raw":0.0222}},
	"defaultKeyStatistics":{"trailingEps":{"raw":350.5},"priceToBook":{"raw":4.2},"bookValue":{"raw":2140}},
	"financialData":{"forwardPE":{"raw":24.1},"returnOnEquity":{"raw":0.165}}
}],"error":null}}`

func newYahooServer(t *testing.T, quoteHandler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var crumbCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/cookie", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&crumbCalls, 1)
		fmt.Fprintf(w, "crumb%d", n)
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", quoteHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &crumbCalls
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(WithBaseURL(srv.URL), WithCookieURL(srv.URL+"/cookie"), WithRateLimit(100))
}

func TestGetQuote_ParsesModules(t *testing.T) {
	var capturedPath, capturedModules, capturedCrumb string
	srv, crumbCalls := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedModules = r.URL.Query().Get("modules")
		capturedCrumb = r.URL.Query().Get("crumb")
		w.Write([]byte(quoteSummaryBody))
	})

	client := newTestClient(srv)
	payload, err := client.GetQuote(context.Background(), "7974.T", nil)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if capturedPath != "/v10/finance/quoteSummary/7974.T" {
		t.Errorf("unexpected path %s", capturedPath)
	}
	if capturedModules != "price,summaryDetail,defaultKeyStatistics,financialData" {
		t.Errorf("unexpected modules %s", capturedModules)
	}
	if capturedCrumb != "crumb1" {
		t.Errorf("expected crumb1, got %s", capturedCrumb)
	}
	if v, ok := payload.Price.RegularMarketPrice.Get(); !ok || v != 9000 {
		t.Errorf("expected price 9000, got %v (%v)", v, ok)
	}
	if v, ok := payload.DefaultKeyStatistics.TrailingEps.Get(); !ok || v != 350.5 {
		t.Errorf("expected EPS 350.5, got %v", v)
	}
	if v, ok := payload.FinancialData.ReturnOnEquity.Get(); !ok || v != 0.165 {
		t.Errorf("expected ROE 0.165, got %v", v)
	}
	if payload.Price.DisplayName() != "Nintendo Co., Ltd." {
		t.Errorf("unexpected display name %q", payload.Price.DisplayName())
	}

	// Crumb is cached across calls
	if _, err := client.GetQuote(context.Background(), "7974.T", nil); err != nil {
		t.Fatalf("second GetQuote failed: %v", err)
	}
	if got := atomic.LoadInt32(crumbCalls); got != 1 {
		t.Errorf("expected 1 crumb fetch, got %d", got)
	}
}

func TestGetQuote_RefreshesRejectedCrumb(t *testing.T) {
	var quoteCalls int32
	srv, crumbCalls := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&quoteCalls, 1) == 1 {
			http.Error(w, `{"finance":{"error":{"code":"Unauthorized"}}}`, http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("crumb") != "crumb2" {
			t.Errorf("expected refreshed crumb, got %s", r.URL.Query().Get("crumb"))
		}
		w.Write([]byte(quoteSummaryBody))
	})

	payload, err := newTestClient(srv).GetQuote(context.Background(), "7974.T", nil)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if !payload.Price.RegularMarketPrice.Valid() {
		t.Error("expected price after retry")
	}
	if got := atomic.LoadInt32(crumbCalls); got != 2 {
		t.Errorf("expected 2 crumb fetches, got %d", got)
	}
}

func TestGetQuote_ServerError(t *testing.T) {
	srv, _ := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := newTestClient(srv).GetQuote(context.Background(), "7974.T", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestGetQuote_SummaryError(t *testing.T) {
	srv, _ := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for symbol: 0000.T"}}}`))
	})

	if _, err := newTestClient(srv).GetQuote(context.Background(), "0000.T", nil); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestGetQuote_MalformedModuleIsEmpty(t *testing.T) {
	srv, _ := newYahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"regularMarketPrice":"N/A"},"summaryDetail":[1,2]}]}}`))
	})

	payload, err := newTestClient(srv).GetQuote(context.Background(), "7974.T", nil)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if payload.Price.RegularMarketPrice.Valid() {
		t.Error("expected N/A price to be absent")
	}
	if payload.SummaryDetail != (models.SummaryDetailModule{}) {
		t.Error("expected malformed summaryDetail to decode as empty")
	}
}

func TestSearch_MapsQuotes(t *testing.T) {
	var captured map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		captured = map[string]string{
			"q":           q.Get("q"),
			"quotesCount": q.Get("quotesCount"),
			"newsCount":   q.Get("newsCount"),
			"lang":        q.Get("lang"),
		}
		w.Write([]byte(`{"quotes":[
			{"symbol":"NTDOY","exchange":"PNK","shortname":"NINTENDO CO LTD","quoteType":"EQUITY"},
			{"symbol":"7974.T","exchange":"JPX","shortname":"NINTENDO","longname":"Nintendo Co., Ltd.","quoteType":"EQUITY"}
		]}`))
	}))
	defer srv.Close()

	quotes, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "にんてんどう")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if captured["q"] != "にんてんどう" || captured["quotesCount"] != "10" || captured["newsCount"] != "0" || captured["lang"] != "ja-JP" {
		t.Errorf("unexpected query params %v", captured)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Name != "NINTENDO CO LTD" {
		t.Errorf("expected shortname fallback, got %q", quotes[0].Name)
	}
	if quotes[1].Symbol != "7974.T" || quotes[1].Exchange != "JPX" || quotes[1].Name != "Nintendo Co., Ltd." {
		t.Errorf("unexpected second quote %+v", quotes[1])
	}
}

func TestSearch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}
