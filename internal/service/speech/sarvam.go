package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/manahq/mana-backend/internal/config"
)

// SarvamClient talks to the Sarvam speech APIs, which handle Hindi and
// Hinglish far better than the general-purpose backends.
type SarvamClient struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
}

// NewSarvamClient creates the client.
func NewSarvamClient(cfg config.SpeechConfig) *SarvamClient {
	return &SarvamClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements Engine.
func (c *SarvamClient) Name() string { return BackendSarvam }

// Transcribe sends audio to the Saarika speech-to-text model. The
// transcript commonly comes back in Devanagari.
func (c *SarvamClient) Transcribe(ctx context.Context, audio io.Reader, format, _ string) (string, error) {
	if !c.cfg.SarvamEnabled() {
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
	if err := writer.WriteField("model", c.cfg.SarvamSTTModel); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := writer.WriteField("language_code", c.cfg.SarvamLangCode); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize transcription form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SarvamBaseURL+"/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.cfg.SarvamAPIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("sarvam transcription", resp)
	}

	var payload struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return payload.Transcript, nil
}

// Synthesize renders text with the Bulbul voice. Output is wav.
func (c *SarvamClient) Synthesize(ctx context.Context, text, _ string) ([]byte, string, error) {
	if !c.cfg.SarvamEnabled() {
		return nil, "", ErrBackendUnavailable
	}

	payload := map[string]any{
		"inputs":               []string{text},
		"target_language_code": c.cfg.SarvamLangCode,
		"speaker":              c.cfg.SarvamSpeaker,
		"model":                c.cfg.SarvamTTSModel,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SarvamBaseURL+"/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.cfg.SarvamAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apiError("sarvam synthesis", resp)
	}

	var result struct {
		Audios []string `json:"audios"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode synthesis response: %w", err)
	}
	if len(result.Audios) == 0 {
		return nil, "", fmt.Errorf("sarvam synthesis returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(result.Audios[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode synthesis audio: %w", err)
	}
	return audio, "wav", nil
}
