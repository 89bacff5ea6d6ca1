package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	analysisemotion "github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/analysis/language"
	"github.com/manahq/mana-backend/internal/analysis/safety"
	"github.com/manahq/mana-backend/internal/analysis/translit"
	"github.com/manahq/mana-backend/internal/model/conversation"
	"github.com/manahq/mana-backend/internal/service/ai"
	"github.com/manahq/mana-backend/internal/service/session"
)

// ErrEmptyMessage is returned when a turn carries no usable text.
var ErrEmptyMessage = errors.New("empty message")

// ErrSessionNotFound is returned for lookups of unknown sessions.
var ErrSessionNotFound = errors.New("session not found")

// TurnRequest is one user utterance entering the pipeline.
type TurnRequest struct {
	SessionID    string
	Text         string
	LanguageHint string
}

// EmotionClassifier is the model-backed emotion strategy. The turn path
// never waits on it; it only refines recorded tags after the reply is out.
type EmotionClassifier interface {
	Enabled() bool
	Classify(ctx context.Context, history []conversation.Turn, userMessage string) analysisemotion.Tag
}

// Service orchestrates a conversation turn: language detection, the
// safety gate, emotion tagging, prompt composition, and generation.
// Turns for the same session run one at a time in arrival order.
type Service struct {
	store        *session.Store
	generator    ai.Generator
	emotions     EmotionClassifier
	historyTurns int
}

// NewService wires the pipeline. historyTurns bounds how much prior
// conversation reaches the model prompt.
func NewService(store *session.Store, generator ai.Generator, emotions EmotionClassifier, historyTurns int) *Service {
	if historyTurns <= 0 {
		historyTurns = 5
	}
	return &Service{
		store:        store,
		generator:    generator,
		emotions:     emotions,
		historyTurns: historyTurns,
	}
}

// ProcessTurn runs one full turn. The safety check always runs before
// any model call, and a crisis detection short-circuits the turn with a
// fixed script: the generator is never invoked for crisis input.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*conversation.TurnResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	state := s.store.GetOrCreate(req.SessionID)
	sessionID := state.ID

	release := s.store.BeginTurn(sessionID)
	defer release()

	start := time.Now()

	lang := language.Detect(text, req.LanguageHint)
	langCode := string(lang)

	// Keyword tables are Roman-script, so Devanagari input is matched
	// against its transliteration. Non-Devanagari text passes through
	// unchanged.
	matchText := text
	if translit.HasDevanagari(text) {
		matchText = translit.ToRoman(text)
	}

	safetyResult := safety.Check(matchText, langCode)

	if safetyResult.Level == safety.LevelCrisis {
		log.Printf("[pipeline] crisis detected, session=%s keywords=%v", sessionID, safetyResult.MatchedKeywords)

		s.store.AppendTurn(sessionID, conversation.RoleUser, text, analysisemotion.Crisis, lang)
		s.store.SetCrisisFlag(sessionID, true)
		s.store.AppendTurn(sessionID, conversation.RoleAssistant, safetyResult.Response, analysisemotion.Neutral, lang)

		return &conversation.TurnResult{
			ResponseText: safetyResult.Response,
			Language:     lang,
			Emotion:      analysisemotion.Crisis,
			IsCrisis:     true,
			LatencyMS:    time.Since(start).Milliseconds(),
		}, nil
	}

	prior, _ := s.store.Get(sessionID)
	firstTurn := prior == nil || prior.UserTurnCount() == 0

	// The turn path always tags with the keyword cascade; the model-backed
	// classifier refines the recorded tag off-path.
	tag := analysisemotion.Classify(matchText)

	// History is captured before the current message is recorded so the
	// query is not duplicated inside the prompt.
	history := s.store.History(sessionID, s.historyTurns)
	if firstTurn {
		// The greeting the voice layer already spoke is simulated as the
		// opening assistant turn.
		history = append([]conversation.HistoryItem{{
			Role:    conversation.RoleAssistant,
			Content: ai.OpeningScript(langCode),
		}}, history...)
	}

	userState := s.store.AppendTurn(sessionID, conversation.RoleUser, text, tag, lang)
	if s.emotions != nil && s.emotions.Enabled() {
		go s.refineEmotion(sessionID, len(userState.EmotionTrajectory)-1, priorTurns(prior), matchText)
	}

	system := ai.SystemPrompt(lang, s.store.ContextSummary(sessionID))
	if safetyResult.Level == safety.LevelWarning {
		system += "\n\n" + ai.WarningDirective
	}

	reply, err := s.generator.Generate(ctx, ai.GenerationRequest{
		System:  system,
		History: history,
		Query:   text,
	})
	if err != nil {
		log.Printf("[pipeline] generation failed, session=%s: %v", sessionID, err)
		reply = ai.FallbackLine(langCode)
	}

	s.store.AppendTurn(sessionID, conversation.RoleAssistant, reply, tag, lang)

	result := &conversation.TurnResult{
		ResponseText: reply,
		Language:     lang,
		Emotion:      tag,
		IsCrisis:     false,
		LatencyMS:    time.Since(start).Milliseconds(),
	}
	if safetyResult.Level == safety.LevelWarning {
		result.AdvisoryText = safetyResult.Response
	}
	return result, nil
}

// refineEmotion re-classifies a recorded user turn with the model and
// updates the stored tag. Runs outside the turn slot on its own context
// so a slow model never holds up the conversation.
func (s *Service) refineEmotion(sessionID string, trajectoryIndex int, history []conversation.Turn, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tag := s.emotions.Classify(ctx, history, text)
	s.store.RefineEmotion(sessionID, trajectoryIndex, tag)
}

// CreateSession registers a session and returns its state along with
// the language-appropriate greeting the voice layer speaks first.
func (s *Service) CreateSession(sessionID, langCode string) (*session.State, string) {
	state := s.store.Create(sessionID)
	lang := language.Detect("", langCode)
	return state, ai.OpeningScript(string(lang))
}

// GetSession returns a snapshot of a session.
func (s *Service) GetSession(sessionID string) (*session.State, error) {
	state, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// CloseSession ends a session and returns its terminal summary.
func (s *Service) CloseSession(sessionID string) (string, error) {
	summary, ok := s.store.Close(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}
	return summary, nil
}

// SilenceReply picks the re-engagement line for a stretch of caller
// silence, in the session's preferred language.
func (s *Service) SilenceReply(sessionID string, silenceSeconds int) string {
	langCode := "en"
	if state, ok := s.store.Get(sessionID); ok && state.LanguagePreference != "" {
		langCode = string(state.LanguagePreference)
	}
	return session.SilenceResponse(silenceSeconds, langCode)
}

func priorTurns(state *session.State) []conversation.Turn {
	if state == nil {
		return nil
	}
	return state.Turns
}
