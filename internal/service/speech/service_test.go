package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/manahq/mana-backend/internal/model/speech"
)

type fakeEngine struct {
	name            string
	transcript      string
	transcribeErr   error
	transcribeCalls int
	audio           []byte
	synthesizeErr   error
	synthesizeCalls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Transcribe(_ context.Context, audio io.Reader, _, _ string) (string, error) {
	f.transcribeCalls++
	io.Copy(io.Discard, audio)
	return f.transcript, f.transcribeErr
}

func (f *fakeEngine) Synthesize(_ context.Context, _, _ string) ([]byte, string, error) {
	f.synthesizeCalls++
	if f.synthesizeErr != nil {
		return nil, "", f.synthesizeErr
	}
	return f.audio, "wav", nil
}

func TestTranscribeHindiHintGoesToSarvam(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, transcript: "hello"}
	sarvam := &fakeEngine{name: BackendSarvam, transcript: "मुझे बहुत तनाव हो रहा है"}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Transcribe(context.Background(), &speech.TranscriptionRequest{
		SessionID:    "s1",
		Audio:        strings.NewReader("fake-audio"),
		Format:       "wav",
		LanguageHint: "hi",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if openai.transcribeCalls != 0 {
		t.Fatal("english backend called for hindi hint")
	}
	if sarvam.transcribeCalls != 1 {
		t.Fatalf("sarvam calls = %d", sarvam.transcribeCalls)
	}
	if result.Backend != BackendSarvam {
		t.Fatalf("backend = %q", result.Backend)
	}
	if result.Language != "hi-en" {
		t.Fatalf("language = %q, want hi-en for a romanized hindi transcript", result.Language)
	}
	if strings.ContainsAny(result.Text, "ऀकम") || result.Text == "" {
		t.Fatalf("expected romanized transcript, got %q", result.Text)
	}
	if !strings.Contains(result.Text, "tanaav") {
		t.Fatalf("transliteration mismatch: %q", result.Text)
	}
}

func TestTranscribeEnglishStaysOnWhisper(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, transcript: "I had a long day at work"}
	sarvam := &fakeEngine{name: BackendSarvam}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Transcribe(context.Background(), &speech.TranscriptionRequest{
		SessionID: "s1",
		Audio:     strings.NewReader("fake-audio"),
		Format:    "webm",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if sarvam.transcribeCalls != 0 {
		t.Fatal("sarvam called for plain english transcript")
	}
	if result.Backend != BackendOpenAI || result.Language != "en" {
		t.Fatalf("backend=%q language=%q", result.Backend, result.Language)
	}
}

func TestTranscribeReroutesHindiFromWhisper(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, transcript: "मैं ठीक नहीं हूँ"}
	sarvam := &fakeEngine{name: BackendSarvam, transcript: "मैं ठीक नहीं हूँ"}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Transcribe(context.Background(), &speech.TranscriptionRequest{
		SessionID: "s1",
		Audio:     strings.NewReader("fake-audio"),
		Format:    "wav",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if sarvam.transcribeCalls != 1 {
		t.Fatalf("expected one re-route to sarvam, got %d calls", sarvam.transcribeCalls)
	}
	if result.Backend != BackendSarvam {
		t.Fatalf("backend = %q", result.Backend)
	}
	if result.Language != "hi-en" {
		t.Fatalf("language = %q, want hi-en for a romanized hindi transcript", result.Language)
	}
	if strings.Contains(result.Text, "ठ") {
		t.Fatalf("transcript not romanized: %q", result.Text)
	}
}

func TestTranscribeRerouteFailureKeepsWhisperTranscript(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, transcript: "नमस्ते"}
	sarvam := &fakeEngine{name: BackendSarvam, transcribeErr: errors.New("down")}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Transcribe(context.Background(), &speech.TranscriptionRequest{
		SessionID: "s1",
		Audio:     strings.NewReader("fake-audio"),
		Format:    "wav",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Backend != BackendOpenAI {
		t.Fatalf("backend = %q", result.Backend)
	}
	if result.Text == "" {
		t.Fatal("expected transcript despite re-route failure")
	}
}

func TestSynthesizeRoutesByLanguage(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, audio: []byte("en-audio")}
	sarvam := &fakeEngine{name: BackendSarvam, audio: []byte("hi-audio")}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Synthesize(context.Background(), &speech.SynthesisRequest{
		SessionID: "s1",
		Text:      "Main sun raha hoon",
		Language:  "hi-en",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Backend != BackendSarvam {
		t.Fatalf("backend = %q", result.Backend)
	}
	if openai.synthesizeCalls != 0 {
		t.Fatal("english backend called for hinglish text")
	}

	result, err = svc.Synthesize(context.Background(), &speech.SynthesisRequest{
		SessionID: "s1",
		Text:      "I hear you",
		Language:  "en",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Backend != BackendOpenAI {
		t.Fatalf("backend = %q", result.Backend)
	}
}

func TestSynthesizeFallsBackOnce(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, audio: []byte("en-audio")}
	sarvam := &fakeEngine{name: BackendSarvam, synthesizeErr: ErrBackendUnavailable}
	svc := NewServiceWithEngines(openai, sarvam)

	result, err := svc.Synthesize(context.Background(), &speech.SynthesisRequest{
		SessionID: "s1",
		Text:      "Main sun raha hoon",
		Language:  "hi",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Backend != BackendOpenAI {
		t.Fatalf("fallback backend = %q", result.Backend)
	}
	if sarvam.synthesizeCalls != 1 || openai.synthesizeCalls != 1 {
		t.Fatalf("calls: sarvam=%d openai=%d", sarvam.synthesizeCalls, openai.synthesizeCalls)
	}
}

func TestSynthesizeBothBackendsFailing(t *testing.T) {
	openai := &fakeEngine{name: BackendOpenAI, synthesizeErr: errors.New("down")}
	sarvam := &fakeEngine{name: BackendSarvam, synthesizeErr: errors.New("down")}
	svc := NewServiceWithEngines(openai, sarvam)

	if _, err := svc.Synthesize(context.Background(), &speech.SynthesisRequest{
		SessionID: "s1",
		Text:      "hello",
		Language:  "en",
	}); err == nil {
		t.Fatal("expected error when both backends fail")
	}
}
