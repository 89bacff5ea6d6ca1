package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manahq/mana-backend/internal/service/pipeline"
	"github.com/manahq/mana-backend/internal/service/session"
)

// Handler serves the text conversation endpoints.
type Handler struct {
	pipeline *pipeline.Service
	store    *session.Store
}

// New creates the chat handler.
func New(pipelineSvc *pipeline.Service, store *session.Store) *Handler {
	return &Handler{
		pipeline: pipelineSvc,
		store:    store,
	}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChatTurn)
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Delete("/session/{sessionID}", h.handleCloseSession)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
		Language  string `json:"language"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.pipeline.ProcessTurn(r.Context(), pipeline.TurnRequest{
		SessionID:    payload.SessionID,
		Text:         payload.Text,
		LanguageHint: payload.Language,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyMessage) {
			respondError(w, http.StatusBadRequest, "text is required")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Language  string `json:"language"`
	}

	// An empty body is fine: the store generates an ID.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	state, greeting := h.pipeline.CreateSession(payload.SessionID, payload.Language)
	respondJSON(w, http.StatusCreated, map[string]any{
		"session":  state,
		"greeting": greeting,
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.pipeline.GetSession(sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := h.pipeline.CloseSession(sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"activeSessions": h.store.ActiveCount(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
