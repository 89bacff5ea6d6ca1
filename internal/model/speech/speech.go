package speech

import (
	"io"
	"time"
)

// TranscriptionRequest asks for speech-to-text on one audio clip.
type TranscriptionRequest struct {
	SessionID    string    `json:"sessionId"`
	Audio        io.Reader `json:"-"`
	Format       string    `json:"format"`
	LanguageHint string    `json:"language"`
}

// TranscriptionResult is the routed transcription outcome. Language is
// the code the router settled on after inspecting the transcript.
type TranscriptionResult struct {
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"createdAt"`
}

// SynthesisRequest asks for text-to-speech in a given language.
type SynthesisRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Language  string `json:"language"`
}

// SynthesisResult carries rendered audio.
type SynthesisResult struct {
	SessionID string    `json:"sessionId"`
	AudioData []byte    `json:"-"`
	Format    string    `json:"format"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"createdAt"`
}
