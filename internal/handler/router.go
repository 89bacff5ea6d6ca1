package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/manahq/mana-backend/internal/handler/chat"
	speechHandler "github.com/manahq/mana-backend/internal/handler/speech"
	"github.com/manahq/mana-backend/internal/handler/webhook"
	middlewarePkg "github.com/manahq/mana-backend/internal/middleware"
	"github.com/manahq/mana-backend/internal/service/pipeline"
	"github.com/manahq/mana-backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(pipelineSvc *pipeline.Service, store *session.Store, speechSvc speechHandler.SpeechService, limiter *middlewarePkg.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	chatHandler := chat.New(pipelineSvc, store)
	webhookHandler := webhook.New(pipelineSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		webhookHandler.RegisterRoutes(api)

		if speechSvc != nil {
			speechHandler.New(speechSvc, pipelineSvc).RegisterRoutes(api)
		}
	})

	return r
}
