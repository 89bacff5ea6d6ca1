// Package session holds the in-memory conversation state. Nothing here
// survives a process restart; destruction is unconditional memory
// reclamation.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/analysis/language"
	"github.com/manahq/mana-backend/internal/model/conversation"
)

// State is a snapshot of one session. Mutations go through the Store.
type State struct {
	ID                 string                  `json:"sessionId"`
	Turns              []conversation.Turn     `json:"turns"`
	LanguagePreference language.Language       `json:"languagePreference"`
	CurrentEmotion     emotion.Tag             `json:"currentEmotion"`
	EmotionTrajectory  []emotion.Tag           `json:"emotionTrajectory"`
	IsCrisis           bool                    `json:"isCrisis"`
	CreatedAt          time.Time               `json:"createdAt"`
	LastActivity       time.Time               `json:"lastActivity"`
}

// UserTurnCount counts user-role turns in the snapshot.
func (s *State) UserTurnCount() int {
	count := 0
	for _, t := range s.Turns {
		if t.Role == conversation.RoleUser {
			count++
		}
	}
	return count
}

// Store keeps every live session behind a single lock. The lock guards
// only in-memory reads/appends; callers must never hold a turn slot or
// issue Store calls around network waits other than through BeginTurn.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State

	turns *serializer
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*State),
		turns:    newSerializer(),
	}
}

// BeginTurn claims the per-session turn slot in arrival order and
// returns the release func. All turn processing for one session ID runs
// inside its slot so turns persist in the order their requests arrived,
// even when a later turn's generation call finishes first. The staleness
// sweep claims the same slot before deleting, so it cannot race an
// in-flight turn.
func (s *Store) BeginTurn(sessionID string) (release func()) {
	return s.turns.acquire(sessionID)
}

// Create provisions a session. Idempotent on a supplied ID: an existing
// session is returned untouched. An empty ID gets a generated one.
func (s *Store) Create(sessionID string) *State {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[sessionID]; ok {
		return snapshot(existing)
	}

	now := time.Now().UTC()
	state := &State{
		ID:                 sessionID,
		LanguagePreference: language.English,
		CurrentEmotion:     emotion.Neutral,
		CreatedAt:          now,
		LastActivity:       now,
	}
	s.sessions[sessionID] = state
	return snapshot(state)
}

// Get returns a snapshot of the session, or ok=false when unknown.
func (s *Store) Get(sessionID string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return snapshot(state), true
}

// GetOrCreate returns the existing session or silently creates one.
func (s *Store) GetOrCreate(sessionID string) *State {
	if sessionID != "" {
		if state, ok := s.Get(sessionID); ok {
			return state
		}
	}
	return s.Create(sessionID)
}

// AppendTurn records a turn and, for user turns, updates the emotion
// trajectory and language preference atomically with the append. The
// session is created if unknown.
func (s *Store) AppendTurn(sessionID string, role conversation.Role, content string, tag emotion.Tag, lang language.Language) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		now := time.Now().UTC()
		state = &State{
			ID:                 sessionID,
			LanguagePreference: language.English,
			CurrentEmotion:     emotion.Neutral,
			CreatedAt:          now,
			LastActivity:       now,
		}
		s.sessions[sessionID] = state
	}

	now := time.Now().UTC()
	state.Turns = append(state.Turns, conversation.Turn{
		Role:      role,
		Content:   content,
		Emotion:   tag,
		Language:  lang,
		Timestamp: now,
	})
	state.LastActivity = now

	if role == conversation.RoleUser {
		state.CurrentEmotion = tag
		state.EmotionTrajectory = append(state.EmotionTrajectory, tag)
		state.LanguagePreference = lang
	}

	return snapshot(state)
}

// History returns the most recent maxTurns role/content pairs,
// oldest-first, for generation context. Unknown sessions yield nil.
func (s *Store) History(sessionID string, maxTurns int) []conversation.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	turns := state.Turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	items := make([]conversation.HistoryItem, 0, len(turns))
	for _, t := range turns {
		items = append(items, conversation.HistoryItem{Role: t.Role, Content: t.Content})
	}
	return items
}

// SetCrisisFlag marks the session. In practice the flag is sticky: the
// pipeline only ever sets it true, and nothing clears it before the
// session is destroyed.
func (s *Store) SetCrisisFlag(sessionID string, isCrisis bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.sessions[sessionID]; ok {
		state.IsCrisis = isCrisis
	}
}

// RefineEmotion replaces the tag recorded for the user turn at the given
// trajectory index, keeping the turn record, the trajectory, and (when
// the index is still the latest) the current emotion aligned. Used by
// the off-path model classifier; out-of-range indexes are ignored.
func (s *Store) RefineEmotion(sessionID string, trajectoryIndex int, tag emotion.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok || trajectoryIndex < 0 || trajectoryIndex >= len(state.EmotionTrajectory) {
		return
	}

	state.EmotionTrajectory[trajectoryIndex] = tag
	if trajectoryIndex == len(state.EmotionTrajectory)-1 {
		state.CurrentEmotion = tag
	}

	seen := 0
	for i := range state.Turns {
		if state.Turns[i].Role != conversation.RoleUser {
			continue
		}
		if seen == trajectoryIndex {
			state.Turns[i].Emotion = tag
			break
		}
		seen++
	}
}

// ContextSummary renders the session context injected into the system
// prompt: turn count, language, current emotion, recent trajectory, and
// a crisis banner when the flag is set.
func (s *Store) ContextSummary(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return "New session — no prior context."
	}

	parts := []string{
		fmt.Sprintf("Session has %d user turns so far.", userTurnCount(state)),
		fmt.Sprintf("User's current language preference: %s", state.LanguagePreference),
		fmt.Sprintf("User's current detected emotional state: %s", state.CurrentEmotion),
	}

	if len(state.EmotionTrajectory) >= 2 {
		parts = append(parts, emotion.TrajectorySummary(state.EmotionTrajectory))
	}

	if state.IsCrisis {
		parts = append(parts, "CRISIS FLAG: Safety keywords were detected earlier in this session.")
	}

	return strings.Join(parts, " ")
}

// Close produces the terminal summary and irrevocably deletes the
// session. Returns ok=false when the session is unknown.
func (s *Store) Close(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return "", false
	}
	delete(s.sessions, sessionID)

	users := userTurnCount(state)
	if users == 0 {
		return "Session ended without meaningful interaction.", true
	}

	seen := make(map[emotion.Tag]struct{})
	var emotions []string
	for _, tag := range state.EmotionTrajectory {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		emotions = append(emotions, string(tag))
	}
	sort.Strings(emotions)

	crisis := "No"
	if state.IsCrisis {
		crisis = "Yes"
	}

	return fmt.Sprintf("Session with %d user turns. Language: %s. Emotions observed: %s. Crisis flag: %s.",
		users, state.LanguagePreference, strings.Join(emotions, ", "), crisis), true
}

// ActiveCount reports the number of live sessions.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepStale deletes every session whose last activity is older than
// maxAge and returns the count removed. Each deletion claims the
// session's turn slot first so a sweep never races an in-flight turn.
func (s *Store) SweepStale(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	s.mu.RLock()
	candidates := make([]string, 0)
	for id, state := range s.sessions {
		if state.LastActivity.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range candidates {
		release := s.turns.acquire(id)

		s.mu.Lock()
		// Re-check under the slot: an in-flight turn may have touched
		// the session between candidate selection and now.
		if state, ok := s.sessions[id]; ok && state.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
		s.mu.Unlock()

		release()
	}
	return removed
}

func userTurnCount(state *State) int {
	count := 0
	for _, t := range state.Turns {
		if t.Role == conversation.RoleUser {
			count++
		}
	}
	return count
}

func snapshot(state *State) *State {
	copied := *state
	copied.Turns = append([]conversation.Turn(nil), state.Turns...)
	copied.EmotionTrajectory = append([]emotion.Tag(nil), state.EmotionTrajectory...)
	return &copied
}
