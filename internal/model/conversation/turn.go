package conversation

import (
	"time"

	"github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/analysis/language"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchange unit within a session. Immutable once recorded.
type Turn struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Emotion   emotion.Tag       `json:"emotion,omitempty"`
	Language  language.Language `json:"language"`
	Timestamp time.Time         `json:"timestamp"`
}

// HistoryItem is the role/content pair handed to the generation layer.
type HistoryItem struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
