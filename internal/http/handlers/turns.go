// Package handlers holds HTTP handlers that are not owned by a single
// domain package.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/northstackhq/funnelbot/internal/bot"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// TurnsHandler accepts normalized conversation turns from channel
// transports and runs them through the bot.
type TurnsHandler struct {
	service bot.Service
	logger  *logging.Logger
}

// NewTurnsHandler creates the webhook handler. service is required.
func NewTurnsHandler(service bot.Service, logger *logging.Logger) *TurnsHandler {
	if service == nil {
		panic("handlers: bot service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TurnsHandler{service: service, logger: logger}
}

// HandleTurn handles POST /turns requests.
func (h *TurnsHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var msg bot.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.logger.Error("failed to decode turn", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(msg.ConversationID) == "" {
		http.Error(w, "conversation_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(msg.Channel) == "" {
		http.Error(w, "channel is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.HandleMessage(r.Context(), msg)
	if err != nil {
		h.logger.Error("failed to process turn",
			"error", err, "conversation_id", msg.ConversationID)
		http.Error(w, "failed to process turn", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HealthCheck handles GET /health requests.
func (h *TurnsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
