package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"

	"github.com/manahq/mana-backend/internal/config"
	"github.com/manahq/mana-backend/internal/model/conversation"
)

// ErrEmptyGeneration is returned when the model produces no usable text.
var ErrEmptyGeneration = errors.New("empty generation output")

// ErrUnavailable is returned by UnavailableGenerator.
var ErrUnavailable = errors.New("generation unavailable")

// UnavailableGenerator stands in when no model credentials are
// configured. Every turn then falls back to the scripted lines.
type UnavailableGenerator struct{}

// Generate implements Generator.
func (UnavailableGenerator) Generate(context.Context, GenerationRequest) (string, error) {
	return "", ErrUnavailable
}

// Generator produces a reply from a composed prompt. The pipeline depends
// on this interface so that response generation can be replaced in tests.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest carries everything the model needs for one reply.
type GenerationRequest struct {
	System  string
	History []conversation.HistoryItem
	Query   string
}

// Service runs chat completions through a compiled eino chain guarded by
// a circuit breaker, so that a misbehaving upstream fails fast instead of
// stacking up blocked turns.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	breaker   *gobreaker.CircuitBreaker
}

// NewService creates the generation service.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "chat-generation",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[ai] circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
		breaker:   breaker,
	}, nil
}

// Generate runs one completion. History older than the configured limit
// is truncated before it reaches the model.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	input := map[string]any{
		"system":  req.System,
		"history": s.buildHistoryMessages(req.History),
		"query":   req.Query,
	}

	result, err := s.breaker.Execute(func() (any, error) {
		return s.chain.Invoke(ctx, input)
	})
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	response := result.(*schema.Message)
	text := strings.TrimSpace(response.Content)
	if text == "" {
		return "", ErrEmptyGeneration
	}

	log.Printf("[ai] generated reply, length=%d", len(text))
	return text, nil
}

// GetChatModel exposes the underlying model for sibling services that
// reuse it, such as the emotion classifier.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

func (s *Service) buildHistoryMessages(items []conversation.HistoryItem) []*schema.Message {
	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		limit = 10
	}

	if len(items) == 0 {
		return nil
	}

	startIdx := 0
	if len(items) > limit {
		startIdx = len(items) - limit
	}

	history := make([]*schema.Message, 0, len(items)-startIdx)
	for _, item := range items[startIdx:] {
		switch item.Role {
		case conversation.RoleUser:
			history = append(history, schema.UserMessage(item.Content))
		case conversation.RoleAssistant:
			history = append(history, schema.AssistantMessage(item.Content, nil))
		}
	}

	return history
}
