package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/manahq/mana-backend/internal/config"
	"github.com/manahq/mana-backend/internal/handler"
	speechHandler "github.com/manahq/mana-backend/internal/handler/speech"
	"github.com/manahq/mana-backend/internal/middleware"
	"github.com/manahq/mana-backend/internal/service/ai"
	emotionservice "github.com/manahq/mana-backend/internal/service/emotion"
	"github.com/manahq/mana-backend/internal/service/pipeline"
	"github.com/manahq/mana-backend/internal/service/session"
	"github.com/manahq/mana-backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store := session.NewStore()

	// Response generation
	var generator ai.Generator = ai.UnavailableGenerator{}
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing with scripted fallback replies only")
		} else {
			generator = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, replies fall back to scripts")
	}

	// Emotion classification (LLM with keyword fallback)
	emotionCfg := emotionservice.Config{
		Enabled:      cfg.AI.EmotionLLMEnabled,
		HistoryLimit: cfg.AI.EmotionHistoryLimit,
	}
	var chatModelForEmotion model.ChatModel
	if aiService != nil {
		chatModelForEmotion = aiService.GetChatModel()
	}
	emotionSvc, err := emotionservice.NewService(ctx, chatModelForEmotion, emotionCfg)
	if err != nil {
		log.Fatalf("failed to initialize emotion service: %v", err)
	}
	if emotionSvc.Enabled() {
		log.Println("Emotion classifier service enabled")
	} else if emotionCfg.Enabled {
		log.Println("Emotion classifier requested but chat model unavailable, falling back to keywords")
	} else {
		log.Println("Emotion classifier using keyword cascade")
	}

	pipelineSvc := pipeline.NewService(store, generator, emotionSvc, cfg.Session.PromptHistoryTurns)

	// Speech routing
	var speechSvc speechHandler.SpeechService
	if cfg.Speech.OpenAIEnabled() || cfg.Speech.SarvamEnabled() {
		speechSvc = speech.NewService(cfg.Speech)
		log.Println("Speech service initialized successfully")
	} else {
		log.Println("Speech credentials not configured, voice endpoints disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateRPS, cfg.Server.RateBurst)

	router := handler.NewRouter(pipelineSvc, store, speechSvc, limiter)

	go sweepStaleSessions(ctx, store, cfg.Session)

	startServer(ctx, cfg.Server, router)
}

// sweepStaleSessions drops sessions idle beyond the configured age.
func sweepStaleSessions(ctx context.Context, store *session.Store, cfg config.SessionConfig) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.SweepStale(cfg.StaleAfter); removed > 0 {
				log.Printf("[session] swept %d stale sessions, %d active", removed, store.ActiveCount())
			}
		}
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Mana backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
