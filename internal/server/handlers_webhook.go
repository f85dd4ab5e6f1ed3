package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/kabutaro/internal/clients/line"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// maxConcurrentEvents bounds the goroutines spent on one webhook batch.
const maxConcurrentEvents = 8

// handleWebhook handles POST /webhook from the LINE platform. The body must
// carry a valid X-Line-Signature. Each text message event gets exactly one
// reply attempt; other events are ignored. A verified batch is always
// acknowledged with 200.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	secret := s.app.Config.Clients.Line.ChannelSecret
	if !line.VerifySignature(secret, body, r.Header.Get(line.SignatureHeader)) {
		s.logger.Warn().Str("remote", r.RemoteAddr).Msg("Webhook signature mismatch")
		WriteError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var payload models.WebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentEvents)
	for _, event := range payload.Events {
		g.Go(func() error {
			return s.handleEvent(r.Context(), event)
		})
	}

	// Reply tokens are single-use; a failed batch is logged and still acked.
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Int("events", len(payload.Events)).Msg("Webhook batch had reply failures")
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvent answers one webhook event.
func (s *Server) handleEvent(ctx context.Context, event models.WebhookEvent) error {
	s.logger.Info().
		Str("user_id", event.Source.UserID).
		Str("type", event.Type).
		Msg("Webhook event received")

	text, ok := event.TextMessage()
	if !ok {
		return nil
	}

	reply := s.app.ReportService.Reply(ctx, text)

	if err := s.app.Messenger.Reply(ctx, event.ReplyToken, reply); err != nil {
		s.logger.Error().Err(err).Str("user_id", event.Source.UserID).Msg("Reply failed")
		return err
	}
	return nil
}
