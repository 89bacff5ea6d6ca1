package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/manahq/mana-backend/internal/config"
)

// OpenAIClient talks to the OpenAI audio endpoints: Whisper for
// transcription and the TTS voices for synthesis. It serves English.
type OpenAIClient struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
}

// NewOpenAIClient creates the client.
func NewOpenAIClient(cfg config.SpeechConfig) *OpenAIClient {
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements Engine.
func (c *OpenAIClient) Name() string { return BackendOpenAI }

// Transcribe sends audio to Whisper. languageHint, when present, is an
// ISO-639-1 code passed through to the API.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio io.Reader, format, languageHint string) (string, error) {
	if !c.cfg.OpenAIEnabled() {
		return "", ErrBackendUnavailable
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+normalizeFormat(format))
	if err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}

	if err := writer.WriteField("model", c.cfg.WhisperModel); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if languageHint != "" {
		if err := writer.WriteField("language", languageHint); err != nil {
			return "", fmt.Errorf("failed to build transcription form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize transcription form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("openai transcription", resp)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return payload.Text, nil
}

// Synthesize renders text with the configured TTS voice. Output is mp3.
func (c *OpenAIClient) Synthesize(ctx context.Context, text, _ string) ([]byte, string, error) {
	if !c.cfg.OpenAIEnabled() {
		return nil, "", ErrBackendUnavailable
	}

	payload := map[string]any{
		"model": c.cfg.OpenAITTSModel,
		"input": text,
		"voice": c.cfg.OpenAITTSVoice,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apiError("openai synthesis", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read synthesis audio: %w", err)
	}
	return audio, "mp3", nil
}

func normalizeFormat(format string) string {
	if format == "" {
		return "wav"
	}
	return format
}

func apiError(operation string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(snippet))
}
