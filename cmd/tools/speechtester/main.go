package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/manahq/mana-backend/internal/config"
	speechmodel "github.com/manahq/mana-backend/internal/model/speech"
	"github.com/manahq/mana-backend/internal/service/speech"
)

// Manual exerciser for the speech backends. Reads credentials from the
// environment, then runs one transcription or synthesis round-trip.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Speech.OpenAIEnabled() && !cfg.Speech.SarvamEnabled() {
		log.Fatal("no speech backend configured, set OPENAI_API_KEY or SARVAM_API_KEY")
	}

	mode := flag.String("mode", "", "test mode: stt or tts")
	audioPath := flag.String("audio", "", "STT input audio file path")
	text := flag.String("text", "", "TTS input text")
	outputPath := flag.String("out", "", "TTS output audio file path (auto-generated when empty)")
	format := flag.String("format", "", "STT input audio format")
	language := flag.String("lang", "", "language code: en, hi, or hi-en")
	session := flag.String("session", "", "custom sessionID, auto-generated when empty")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	if *mode != "stt" && *mode != "tts" {
		flag.Usage()
		log.Fatal("specify a test mode with -mode=stt or -mode=tts")
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = fmt.Sprintf("manual-%d", time.Now().UnixNano())
	}

	svc := speech.NewService(cfg.Speech)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "stt":
		runSTT(ctx, svc, sessionID, *audioPath, *format, *language)
	case "tts":
		runTTS(ctx, svc, sessionID, *text, *language, *outputPath)
	}
}

func runSTT(ctx context.Context, svc *speech.Service, sessionID, audioPath, format, language string) {
	if audioPath == "" {
		log.Fatal("stt mode requires an audio file via -audio")
	}

	file, err := os.Open(audioPath)
	if err != nil {
		log.Fatalf("failed to open audio file: %v", err)
	}
	defer file.Close()

	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(audioPath)), ".")
		if format == "" {
			format = "wav"
		}
	}

	req := &speechmodel.TranscriptionRequest{
		SessionID:    sessionID,
		Audio:        file,
		Format:       format,
		LanguageHint: language,
	}

	log.Printf("running STT: session=%s format=%s language=%s", sessionID, format, language)

	result, err := svc.Transcribe(ctx, req)
	if err != nil {
		log.Fatalf("STT failed: %v", err)
	}

	log.Printf("STT succeeded: text=%q language=%s backend=%s", result.Text, result.Language, result.Backend)
}

func runTTS(ctx context.Context, svc *speech.Service, sessionID, text, language, outputPath string) {
	if strings.TrimSpace(text) == "" {
		log.Fatal("tts mode requires text via -text")
	}

	if language == "" {
		language = "en"
	}

	req := &speechmodel.SynthesisRequest{
		SessionID: sessionID,
		Text:      text,
		Language:  language,
	}

	log.Printf("running TTS: session=%s language=%s", sessionID, language)

	result, err := svc.Synthesize(ctx, req)
	if err != nil {
		log.Fatalf("TTS failed: %v", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("tts-output-%d.%s", time.Now().Unix(), result.Format)
	}

	if err := os.WriteFile(outputPath, result.AudioData, 0o644); err != nil {
		log.Fatalf("failed to write audio file: %v", err)
	}

	log.Printf("TTS succeeded: wrote %s via %s backend", outputPath, result.Backend)
}
