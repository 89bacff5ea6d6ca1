package speech

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/manahq/mana-backend/internal/model/speech"
	"github.com/manahq/mana-backend/internal/service/pipeline"
)

// SpeechService abstracts the routing layer so the handler can be
// tested with a fake.
type SpeechService interface {
	Transcribe(ctx context.Context, req *speech.TranscriptionRequest) (*speech.TranscriptionResult, error)
	Synthesize(ctx context.Context, req *speech.SynthesisRequest) (*speech.SynthesisResult, error)
}

// Handler serves the standalone speech endpoints and the realtime
// voice websocket.
type Handler struct {
	speechSvc   SpeechService
	pipelineSvc *pipeline.Service
}

// New creates the speech handler.
func New(speechSvc SpeechService, pipelineSvc *pipeline.Service) *Handler {
	return &Handler{
		speechSvc:   speechSvc,
		pipelineSvc: pipelineSvc,
	}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/stt", h.handleTranscribe)
	r.Post("/tts", h.handleSynthesize)

	if h.pipelineSvc != nil {
		wsHandler := NewVoiceHandler(h.speechSvc, h.pipelineSvc)
		r.Get("/voice/ws/{sessionID}", wsHandler.HandleVoiceSession)
	}
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.respondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	req := &speech.TranscriptionRequest{
		SessionID:    r.FormValue("sessionId"),
		Audio:        file,
		Format:       inferAudioFormat(header.Filename),
		LanguageHint: r.FormValue("language"),
	}

	result, err := h.speechSvc.Transcribe(r.Context(), req)
	if err != nil {
		log.Printf("[speech] transcription error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "speech recognition failed")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req speech.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		h.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.speechSvc.Synthesize(r.Context(), &req)
	if err != nil {
		log.Printf("[speech] synthesis error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "speech synthesis failed")
		return
	}

	format := result.Format
	if format == "" {
		format = "octet-stream"
	}
	w.Header().Set("Content-Type", "audio/"+format)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.AudioData)))
	w.Header().Set("Content-Disposition", "attachment; filename=speech."+format)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.AudioData); err != nil {
		log.Printf("failed to write audio response: %v", err)
	}
}

// inferAudioFormat guesses the container from the upload filename.
func inferAudioFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "mp3"
	case ".wav":
		return "wav"
	case ".webm":
		return "webm"
	case ".m4a":
		return "m4a"
	case ".aac":
		return "aac"
	default:
		return "wav"
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
