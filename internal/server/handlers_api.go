package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
	"github.com/bobmcallan/kabutaro/internal/services/ranking"
)

// maxRankingLimit caps ?limit= on the ranking endpoint.
const maxRankingLimit = 50

// handleResolve handles GET /api/resolve?q=
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query().Get("q")
	if common.IsBlank(q) {
		WriteError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	res := s.app.ResolverService.Resolve(r.Context(), q)
	if !res.Found() {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"input":      q,
			"normalized": common.Normalize(q),
			"found":      false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"input":      q,
		"normalized": common.Normalize(q),
		"found":      true,
		"symbol":     res.Symbol,
		"source":     res.Source,
	})
}

// reportRequest is the body of POST /api/report.
type reportRequest struct {
	Q string `json:"q"`
}

// handleReport handles GET /api/report?q= and POST /api/report {"q": ...}
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	q := r.URL.Query().Get("q")
	if r.Method == http.MethodPost {
		var req reportRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		q = req.Q
	}

	lookup := s.app.ReportService.Lookup(r.Context(), q)

	status := http.StatusOK
	switch lookup.Failure {
	case interfaces.LookupBlank:
		status = http.StatusBadRequest
	case interfaces.LookupNotFound:
		status = http.StatusNotFound
	case interfaces.LookupFetchFailed:
		status = http.StatusBadGateway
	}

	WriteJSON(w, status, lookup)
}

// handleRanking handles GET /api/ranking?kind=&limit=
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	kind, err := models.ParseMoverKind(strings.ToLower(r.URL.Query().Get("kind")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := s.app.Config.Ranking.Limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxRankingLimit {
			WriteError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"kind":  kind,
		"limit": limit,
		"text":  s.app.RankingService.Digest(r.Context(), kind, limit),
	})
}

// handleRankingPush handles POST /api/ranking/push. It sends the manual
// digest to the configured ranking user and requires the operator token as
// a bearer credential; without a configured token the endpoint is disabled.
func (s *Server) handleRankingPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	token := s.app.Config.Server.APIToken
	if token == "" {
		WriteError(w, http.StatusForbidden, "Manual push disabled")
		return
	}
	if !validBearer(r, token) {
		s.logger.Warn().Str("remote", r.RemoteAddr).Msg("Ranking push rejected: bad operator token")
		WriteError(w, http.StatusUnauthorized, "Invalid operator token")
		return
	}

	to := s.app.Config.Ranking.UserID
	if to == "" {
		WriteError(w, http.StatusServiceUnavailable, "No push target configured")
		return
	}

	if err := s.app.RankingService.Push(r.Context(), to, ranking.ManualPushHeader); err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// validBearer reports whether the request carries "Authorization: Bearer <token>".
func validBearer(r *http.Request, token string) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}
