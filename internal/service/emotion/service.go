package emotion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/model/conversation"
)

// Config controls the LLM-backed emotion classifier.
type Config struct {
	Enabled      bool
	HistoryLimit int
}

// Service classifies the user's emotional state with the chat model and
// falls back to the keyword cascade whenever the model is unavailable or
// returns something outside the allowed label set.
type Service struct {
	enabled      bool
	classifier   compose.Runnable[map[string]any, *schema.Message]
	fallback     func(text string) analysis.Tag
	historyLimit int
}

// NewService creates the classifier. chatModel may be the same instance
// the response generator uses.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 6
	}

	svc := &Service{
		enabled:      cfg.Enabled && chatModel != nil,
		fallback:     analysis.Classify,
		historyLimit: historyLimit,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether LLM classification is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Classify returns the emotion tag for the user's latest message. It
// never fails: any classifier problem degrades to the keyword cascade.
func (s *Service) Classify(ctx context.Context, history []conversation.Turn, userMessage string) analysis.Tag {
	if !s.Enabled() {
		return s.fallback(userMessage)
	}

	input := map[string]any{
		"history":      formatHistory(history, s.historyLimit),
		"user_message": strings.TrimSpace(userMessage),
	}

	msg, err := s.classifier.Invoke(ctx, input)
	if err != nil {
		log.Printf("[emotion] classifier invoke failed, using keyword fallback: %v", err)
		return s.fallback(userMessage)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallback(userMessage)
	}

	tag, ok := parseLabel(msg.Content)
	if !ok {
		log.Printf("[emotion] classifier returned unknown label %q, using keyword fallback", msg.Content)
		return s.fallback(userMessage)
	}
	return tag
}

// parseLabel extracts one of the six allowed labels from model output,
// tolerating surrounding punctuation and prose.
func parseLabel(content string) (analysis.Tag, bool) {
	normalized := strings.ToLower(strings.TrimSpace(content))
	normalized = strings.Trim(normalized, ".,:;\"'` ")

	if tag, ok := analysis.ParseTag(normalized); ok {
		return tag, true
	}

	// Some models wrap the label in a sentence. Accept the first
	// recognizable label word.
	for _, field := range strings.Fields(normalized) {
		field = strings.Trim(field, ".,:;\"'` ")
		if tag, ok := analysis.ParseTag(field); ok {
			return tag, true
		}
	}
	return "", false
}

func formatHistory(turns []conversation.Turn, limit int) string {
	if len(turns) == 0 {
		return "No prior conversation."
	}
	if limit < 1 {
		limit = 1
	}
	start := len(turns) - limit
	if start < 0 {
		start = 0
	}

	var builder strings.Builder
	for i := start; i < len(turns); i++ {
		turn := turns[i]
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		role := "User"
		if turn.Role == conversation.RoleAssistant {
			role = "Assistant"
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(role)
		builder.WriteString(": ")
		builder.WriteString(content)
	}
	if builder.Len() == 0 {
		return "No prior conversation."
	}
	return builder.String()
}

const classifierSystemPrompt = "You are an emotion classifier for a mental health support conversation. " +
	"The user may write in English, Hindi, or mixed Hindi-English. " +
	"Classify the user's current emotional state into EXACTLY ONE of these labels: " +
	"anxious, sad, angry, frustrated, positive, neutral. " +
	"Respond with the single label word only. No punctuation, no explanation."

const classifierUserPrompt = "Recent conversation:\n{history}\n\nUser's latest message:\n{user_message}\n\nLabel:"
