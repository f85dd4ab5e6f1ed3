package server

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/kabutaro/internal/common"
)

// registerRoutes sets up all routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// LINE webhook
	mux.HandleFunc("/webhook", s.handleWebhook)

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Stocks
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/report", s.handleReport)

	// Ranking
	mux.HandleFunc("/api/ranking", s.handleRanking)
	mux.HandleFunc("/api/ranking/push", s.handleRankingPush)

	// MCP over Streamable HTTP
	if s.app.MCPServer != nil {
		mux.Handle("/mcp", server.NewStreamableHTTPServer(s.app.MCPServer,
			server.WithStateLess(true),
		))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"registry": s.app.Registry.Len(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
