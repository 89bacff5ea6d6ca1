package webhook

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manahq/mana-backend/internal/service/pipeline"
)

// Handler receives events from the telephony provider: caller
// transcripts, silence notifications, and call teardown.
type Handler struct {
	pipeline *pipeline.Service
}

// New creates the webhook handler.
func New(pipelineSvc *pipeline.Service) *Handler {
	return &Handler{pipeline: pipelineSvc}
}

// RegisterRoutes mounts the webhook route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleEvent)
}

type event struct {
	Type           string `json:"type"`
	SessionID      string `json:"sessionId"`
	Text           string `json:"text"`
	Language       string `json:"language"`
	SilenceSeconds int    `json:"silenceSeconds"`
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var evt event
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if evt.SessionID == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	switch evt.Type {
	case "transcript":
		result, err := h.pipeline.ProcessTurn(r.Context(), pipeline.TurnRequest{
			SessionID:    evt.SessionID,
			Text:         evt.Text,
			LanguageHint: evt.Language,
		})
		if err != nil {
			if errors.Is(err, pipeline.ErrEmptyMessage) {
				respondError(w, http.StatusBadRequest, "text is required")
				return
			}
			log.Printf("[webhook] turn failed session=%s: %v", evt.SessionID, err)
			respondError(w, http.StatusInternalServerError, "turn processing failed")
			return
		}
		respondJSON(w, http.StatusOK, result)

	case "silence":
		reply := h.pipeline.SilenceReply(evt.SessionID, evt.SilenceSeconds)
		respondJSON(w, http.StatusOK, map[string]any{
			"responseText": reply,
			"silence":      true,
		})

	case "call-ended":
		summary, err := h.pipeline.CloseSession(evt.SessionID)
		if err != nil {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[webhook] call ended session=%s", evt.SessionID)
		respondJSON(w, http.StatusOK, map[string]string{"summary": summary})

	default:
		respondError(w, http.StatusBadRequest, "unsupported event type: "+evt.Type)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
