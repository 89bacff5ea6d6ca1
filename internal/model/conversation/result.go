package conversation

import (
	"github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/analysis/language"
)

// TurnResult is the pipeline output for one processed user turn.
type TurnResult struct {
	ResponseText string            `json:"responseText"`
	Language     language.Language `json:"language"`
	Emotion      emotion.Tag       `json:"emotion"`
	IsCrisis     bool              `json:"isCrisis"`
	AdvisoryText string            `json:"advisoryText,omitempty"`
	LatencyMS    int64             `json:"latencyMs"`
}
