package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/manahq/mana-backend/internal/analysis/language"
	"github.com/manahq/mana-backend/internal/analysis/translit"
	"github.com/manahq/mana-backend/internal/config"
	"github.com/manahq/mana-backend/internal/model/speech"
)

// Service routes speech work between the two backends. English goes to
// OpenAI, Hindi and Hinglish go to Sarvam, and a transcript that turns
// out to be in the other language gets re-routed once.
type Service struct {
	openai Engine
	sarvam Engine
}

// NewService builds the router with the real backend clients.
func NewService(cfg config.SpeechConfig) *Service {
	return NewServiceWithEngines(NewOpenAIClient(cfg), NewSarvamClient(cfg))
}

// NewServiceWithEngines wires explicit backends.
func NewServiceWithEngines(openai, sarvam Engine) *Service {
	return &Service{openai: openai, sarvam: sarvam}
}

// Transcribe converts one audio clip to text. Devanagari transcripts
// are transliterated to Roman script so downstream keyword matching
// and prompting work on a single script.
func (s *Service) Transcribe(ctx context.Context, req *speech.TranscriptionRequest) (*speech.TranscriptionResult, error) {
	audio, err := io.ReadAll(req.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	engine := s.transcriberFor(req.LanguageHint)
	transcript, err := engine.Transcribe(ctx, bytes.NewReader(audio), req.Format, req.LanguageHint)
	if err != nil {
		return nil, fmt.Errorf("transcription via %s failed: %w", engine.Name(), err)
	}

	// Whisper occasionally receives Hindi speech under an English hint.
	// One re-route to the Hindi backend, never more.
	if engine == s.openai {
		if detected := language.Detect(transcript, ""); detected != language.English {
			rerouted, rerr := s.sarvam.Transcribe(ctx, bytes.NewReader(audio), req.Format, req.LanguageHint)
			if rerr != nil {
				log.Printf("[speech] hindi re-route failed, keeping whisper transcript: %v", rerr)
			} else {
				transcript = rerouted
				engine = s.sarvam
			}
		}
	}

	text := transcript
	romanized := false
	if translit.HasDevanagari(text) {
		text = translit.ToRoman(text)
		romanized = true
	}

	// Language is decided on the romanized text. Anything served by the
	// Hindi backend or transliterated here is handed downstream under the
	// Hinglish tag, since the text is now Roman-script Hindi.
	lang := language.Detect(text, req.LanguageHint)
	if engine == s.sarvam || romanized {
		lang = language.Hinglish
	}

	return &speech.TranscriptionResult{
		SessionID: req.SessionID,
		Text:      text,
		Language:  string(lang),
		Backend:   engine.Name(),
		CreatedAt: time.Now(),
	}, nil
}

// Synthesize renders text in the requested language, falling back to
// the other backend once if the native one fails.
func (s *Service) Synthesize(ctx context.Context, req *speech.SynthesisRequest) (*speech.SynthesisResult, error) {
	primary, secondary := s.synthesizersFor(req.Language)

	audio, format, err := primary.Synthesize(ctx, req.Text, req.Language)
	if err != nil {
		log.Printf("[speech] synthesis via %s failed, trying %s: %v", primary.Name(), secondary.Name(), err)
		audio, format, err = secondary.Synthesize(ctx, req.Text, req.Language)
		if err != nil {
			return nil, fmt.Errorf("synthesis failed on both backends: %w", err)
		}
		primary = secondary
	}

	return &speech.SynthesisResult{
		SessionID: req.SessionID,
		AudioData: audio,
		Format:    format,
		Backend:   primary.Name(),
		CreatedAt: time.Now(),
	}, nil
}

func (s *Service) transcriberFor(langHint string) Engine {
	lang := language.Detect("", langHint)
	if language.PipelineFor(lang) == language.PipelineSecondary {
		return s.sarvam
	}
	return s.openai
}

func (s *Service) synthesizersFor(langCode string) (primary, secondary Engine) {
	lang := language.Detect("", langCode)
	if language.PipelineFor(lang) == language.PipelineSecondary {
		return s.sarvam, s.openai
	}
	return s.openai, s.sarvam
}
