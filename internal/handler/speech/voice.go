package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/manahq/mana-backend/internal/model/speech"
	"github.com/manahq/mana-backend/internal/service/pipeline"
)

// VoiceHandler runs the realtime voice loop over a websocket: buffered
// caller audio in, transcript plus spoken reply out.
type VoiceHandler struct {
	speechSvc   SpeechService
	pipelineSvc *pipeline.Service
	upgrader    websocket.Upgrader
}

// NewVoiceHandler creates the websocket voice handler.
func NewVoiceHandler(speechSvc SpeechService, pipelineSvc *pipeline.Service) *VoiceHandler {
	return &VoiceHandler{
		speechSvc:   speechSvc,
		pipelineSvc: pipelineSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// AudioMessage carries one chunk of caller audio.
type AudioMessage struct {
	AudioData []byte `json:"audioData"`
	Format    string `json:"format"`
	Language  string `json:"language"`
	IsFinal   bool   `json:"isFinal"`
}

// TextMessage carries typed user input over the same connection.
type TextMessage struct {
	Text string `json:"text"`
}

// SilenceMessage reports how long the caller has been quiet.
type SilenceMessage struct {
	Seconds int `json:"seconds"`
}

// ConfigMessage updates per-connection settings.
type ConfigMessage struct {
	Language   string `json:"language"`
	TTSEnabled *bool  `json:"ttsEnabled,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// voiceConn serializes frame writes. The read loop and the ping loop
// both write to the socket, and gorilla allows only one writer at a time.
type voiceConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *voiceConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *voiceConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

type connectionState struct {
	sessionID   string
	language    string
	ttsEnabled  bool
	audioFormat string
	buffer      bytes.Buffer
}

// HandleVoiceSession upgrades the connection and runs the voice loop
// until the caller disconnects.
func (h *VoiceHandler) HandleVoiceSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.pipelineSvc.GetSession(sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[voice] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	wc := &voiceConn{conn: conn}
	go h.pingLoop(ctx, wc)

	state := &connectionState{
		sessionID:  sessionID,
		ttsEnabled: true,
	}

	h.send(wc, sessionID, "connected", map[string]any{"sessionId": sessionID})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[voice] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(wc, "session mismatch")
				continue
			}

			h.handleMessage(ctx, wc, state, &msg)
		}
	}
}

func (h *VoiceHandler) handleMessage(ctx context.Context, conn *voiceConn, state *connectionState, msg *inboundMessage) {
	switch msg.Type {
	case "audio":
		h.handleAudio(ctx, conn, state, msg.Data)
	case "text":
		h.handleText(ctx, conn, state, msg.Data)
	case "silence":
		h.handleSilence(ctx, conn, state, msg.Data)
	case "config":
		h.handleConfig(conn, state, msg.Data)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *VoiceHandler) handleAudio(ctx context.Context, conn *voiceConn, state *connectionState, raw json.RawMessage) {
	var audio AudioMessage
	if err := json.Unmarshal(raw, &audio); err != nil {
		h.sendError(conn, "invalid audio payload")
		return
	}

	if len(audio.AudioData) > 0 {
		state.buffer.Write(audio.AudioData)
	}
	if audio.Format != "" {
		state.audioFormat = audio.Format
	}
	if audio.Language != "" {
		state.language = audio.Language
	}

	if audio.IsFinal {
		h.processBufferedAudio(ctx, conn, state)
	}
}

func (h *VoiceHandler) processBufferedAudio(ctx context.Context, conn *voiceConn, state *connectionState) {
	audioBytes := state.buffer.Bytes()
	state.buffer.Reset()

	if len(audioBytes) == 0 {
		return
	}

	format := state.audioFormat
	if format == "" {
		format = "wav"
	}

	result, err := h.speechSvc.Transcribe(ctx, &speech.TranscriptionRequest{
		SessionID:    state.sessionID,
		Audio:        bytes.NewReader(audioBytes),
		Format:       format,
		LanguageHint: state.language,
	})
	if err != nil {
		log.Printf("[voice] transcription failed session=%s: %v", state.sessionID, err)
		h.sendError(conn, "transcription failed")
		return
	}

	h.send(conn, state.sessionID, "transcript", map[string]any{
		"text":     result.Text,
		"language": result.Language,
		"backend":  result.Backend,
	})

	if result.Text == "" {
		return
	}

	state.language = result.Language
	h.runTurn(ctx, conn, state, result.Text, result.Language)
}

func (h *VoiceHandler) handleText(ctx context.Context, conn *voiceConn, state *connectionState, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(conn, "invalid text payload")
		return
	}
	if text.Text == "" {
		return
	}

	h.runTurn(ctx, conn, state, text.Text, state.language)
}

func (h *VoiceHandler) runTurn(ctx context.Context, conn *voiceConn, state *connectionState, userText, langHint string) {
	result, err := h.pipelineSvc.ProcessTurn(ctx, pipeline.TurnRequest{
		SessionID:    state.sessionID,
		Text:         userText,
		LanguageHint: langHint,
	})
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.send(conn, state.sessionID, "reply", result)

	if state.ttsEnabled && result.ResponseText != "" {
		h.sendSpokenReply(ctx, conn, state, result.ResponseText, string(result.Language))
	}
}

func (h *VoiceHandler) handleSilence(ctx context.Context, conn *voiceConn, state *connectionState, raw json.RawMessage) {
	var silence SilenceMessage
	if err := json.Unmarshal(raw, &silence); err != nil {
		h.sendError(conn, "invalid silence payload")
		return
	}

	reply := h.pipelineSvc.SilenceReply(state.sessionID, silence.Seconds)

	h.send(conn, state.sessionID, "reply", map[string]any{
		"responseText": reply,
		"silence":      true,
	})

	if state.ttsEnabled {
		h.sendSpokenReply(ctx, conn, state, reply, state.language)
	}
}

func (h *VoiceHandler) sendSpokenReply(ctx context.Context, conn *voiceConn, state *connectionState, text, langCode string) {
	result, err := h.speechSvc.Synthesize(ctx, &speech.SynthesisRequest{
		SessionID: state.sessionID,
		Text:      text,
		Language:  langCode,
	})
	if err != nil {
		log.Printf("[voice] synthesis failed session=%s: %v", state.sessionID, err)
		h.send(conn, state.sessionID, "tts", map[string]any{"error": "synthesis failed"})
		return
	}

	if len(result.AudioData) == 0 {
		log.Printf("[voice] synthesis returned empty audio session=%s", state.sessionID)
		return
	}

	h.send(conn, state.sessionID, "tts", map[string]any{
		"audioData": base64.StdEncoding.EncodeToString(result.AudioData),
		"format":    result.Format,
		"backend":   result.Backend,
	})
}

func (h *VoiceHandler) handleConfig(conn *voiceConn, state *connectionState, raw json.RawMessage) {
	var cfg ConfigMessage
	if err := json.Unmarshal(raw, &cfg); err != nil {
		h.sendError(conn, "invalid config payload")
		return
	}

	if cfg.Language != "" {
		state.language = cfg.Language
	}
	if cfg.TTSEnabled != nil {
		state.ttsEnabled = *cfg.TTSEnabled
	}

	h.send(conn, state.sessionID, "config", map[string]any{
		"language": state.language,
		"tts":      state.ttsEnabled,
	})
}

func (h *VoiceHandler) send(conn *voiceConn, sessionID, msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.writeJSON(msg); err != nil {
		log.Printf("[voice] write failed: %v", err)
	}
}

func (h *VoiceHandler) sendError(conn *voiceConn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := conn.writeJSON(msg); err != nil {
		log.Printf("[voice] write error failed: %v", err)
	}
}

func (h *VoiceHandler) pingLoop(ctx context.Context, conn *voiceConn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
