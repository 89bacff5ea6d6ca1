package speech

import (
	"context"
	"errors"
	"io"
)

// ErrBackendUnavailable is returned when a backend has no credentials.
var ErrBackendUnavailable = errors.New("speech backend not configured")

// Backend names used in results and logs.
const (
	BackendOpenAI = "openai"
	BackendSarvam = "sarvam"
)

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, format, languageHint string) (string, error)
}

// Synthesizer renders text as audio and reports the container format.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string) (audio []byte, format string, err error)
}

// Engine is a full speech backend.
type Engine interface {
	Transcriber
	Synthesizer
	Name() string
}
