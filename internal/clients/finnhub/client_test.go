package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/kabutaro/internal/models"
)

func TestGetMovers_Paths(t *testing.T) {
	tests := []struct {
		kind models.MoverKind
		path string
	}{
		{models.MoversGainers, "/stock/top-gainers"},
		{models.MoversLosers, "/stock/top-losers"},
		{models.MoversVolume, "/stock/most-active"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var path, token, exchange string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				token = r.URL.Query().Get("token")
				exchange = r.URL.Query().Get("exchange")
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			client := NewClient("secret", WithBaseURL(srv.URL), WithExchange("T"), WithRateLimit(100))
			if _, err := client.GetMovers(context.Background(), tt.kind); err != nil {
				t.Fatalf("GetMovers failed: %v", err)
			}

			if path != tt.path {
				t.Errorf("expected path %s, got %s", tt.path, path)
			}
			if token != "secret" {
				t.Errorf("expected token secret, got %s", token)
			}
			if exchange != "T" {
				t.Errorf("expected exchange T, got %s", exchange)
			}
		})
	}
}

func TestGetMovers_ParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol":"6758.T","description":"ソニーグループ","changePercent":5.12},
			{"symbol":"9984.T","description":"","changePercent":"3.4"},
			{"symbol":"7203.T","description":"トヨタ自動車","changePercent":null}
		]`))
	}))
	defer srv.Close()

	entries, err := NewClient("k", WithBaseURL(srv.URL)).GetMovers(context.Background(), models.MoversGainers)
	if err != nil {
		t.Fatalf("GetMovers failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Rank != 1 || entries[0].Label != "ソニーグループ" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if v, ok := entries[0].ChangePercent.Get(); !ok || v != 5.12 {
		t.Errorf("expected 5.12, got %v", v)
	}
	if entries[1].Label != "9984.T" {
		t.Errorf("expected symbol fallback label, got %q", entries[1].Label)
	}
	if v, ok := entries[1].ChangePercent.Get(); !ok || v != 3.4 {
		t.Errorf("expected numeric string to parse, got %v", v)
	}
	if entries[2].ChangePercent.Valid() {
		t.Error("expected null change to be absent")
	}
}

func TestGetMovers_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", WithBaseURL(srv.URL))
	_, err := client.GetMovers(context.Background(), models.MoversLosers)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}

	if _, err := client.GetMovers(context.Background(), "sideways"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
