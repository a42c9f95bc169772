package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/northstackhq/funnelbot/internal/override"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// AdminAssistantHandler exposes the operator knobs for the assistant: the
// custom scenario prompt and the contact override block inside it.
type AdminAssistantHandler struct {
	store  override.Store
	logger *logging.Logger
}

// NewAdminAssistantHandler creates the admin handler. store is required.
func NewAdminAssistantHandler(store override.Store, logger *logging.Logger) *AdminAssistantHandler {
	if store == nil {
		panic("handlers: override store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAssistantHandler{store: store, logger: logger}
}

type promptPayload struct {
	Prompt string `json:"prompt"`
}

type contactsPayload struct {
	Contacts map[string]string `json:"contacts"`
}

// GetPrompt handles GET /admin/assistant/prompt.
func (h *AdminAssistantHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.store.GetPrompt(r.Context())
	if err != nil {
		h.logger.Error("failed to load custom prompt", "error", err)
		http.Error(w, "failed to load prompt", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(promptPayload{Prompt: prompt})
}

// SetPrompt handles PUT /admin/assistant/prompt. An empty prompt clears the
// override and the assistant falls back to its base behavior.
func (h *AdminAssistantHandler) SetPrompt(w http.ResponseWriter, r *http.Request) {
	var payload promptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SetPrompt(r.Context(), payload.Prompt); err != nil {
		h.logger.Error("failed to store custom prompt", "error", err)
		http.Error(w, "failed to store prompt", http.StatusInternalServerError)
		return
	}

	h.logger.Info("custom prompt updated", "length", len(payload.Prompt))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetContacts handles GET /admin/assistant/contacts. It returns the contact
// set the assistant currently hands out, defaults merged with any override
// block in the stored prompt.
func (h *AdminAssistantHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.store.GetPrompt(r.Context())
	if err != nil {
		h.logger.Error("failed to load custom prompt", "error", err)
		http.Error(w, "failed to load contacts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contactsPayload{Contacts: override.ParseContacts(prompt)})
}

// SetContacts handles PUT /admin/assistant/contacts. It rewrites the
// override block inside the stored prompt, keeping the rest of the prompt
// intact.
func (h *AdminAssistantHandler) SetContacts(w http.ResponseWriter, r *http.Request) {
	var payload contactsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(payload.Contacts) == 0 {
		http.Error(w, "contacts are required", http.StatusBadRequest)
		return
	}

	prompt, err := h.store.GetPrompt(r.Context())
	if err != nil {
		h.logger.Error("failed to load custom prompt", "error", err)
		http.Error(w, "failed to store contacts", http.StatusInternalServerError)
		return
	}

	// Channels not named in the request keep their current value.
	merged := override.ParseContacts(prompt)
	for key, value := range payload.Contacts {
		if _, known := merged[key]; !known {
			http.Error(w, "unknown contact channel: "+key, http.StatusBadRequest)
			return
		}
		merged[key] = override.NormalizeContactValue(key, value)
	}

	if err := h.store.SetPrompt(r.Context(), override.WithContacts(prompt, merged)); err != nil {
		h.logger.Error("failed to store contacts", "error", err)
		http.Error(w, "failed to store contacts", http.StatusInternalServerError)
		return
	}

	h.logger.Info("contact overrides updated", "keys", len(payload.Contacts))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
