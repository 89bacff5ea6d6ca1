package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/manahq/mana-backend/internal/analysis/emotion"
	"github.com/manahq/mana-backend/internal/analysis/language"
	"github.com/manahq/mana-backend/internal/model/conversation"
)

func TestCreateGeneratesID(t *testing.T) {
	store := NewStore()
	state := store.Create("")
	if state.ID == "" {
		t.Fatal("expected generated session ID")
	}
	if _, ok := store.Get(state.ID); !ok {
		t.Fatal("created session must be retrievable")
	}
}

func TestCreateIdempotentOnSuppliedID(t *testing.T) {
	store := NewStore()
	store.Create("s1")
	store.AppendTurn("s1", conversation.RoleUser, "hello", emotion.Neutral, language.English)

	again := store.Create("s1")
	if len(again.Turns) != 1 {
		t.Fatalf("re-create must not reset state, got %d turns", len(again.Turns))
	}
}

func TestGetUnknownReturnsAbsent(t *testing.T) {
	store := NewStore()
	if _, ok := store.Get("missing"); ok {
		t.Fatal("unknown session must be absent, not an error")
	}
}

func TestGetOrCreateIdempotent(t *testing.T) {
	store := NewStore()
	first := store.GetOrCreate("s1")
	store.AppendTurn("s1", conversation.RoleUser, "hi", emotion.Neutral, language.English)
	second := store.GetOrCreate("s1")

	if first.ID != second.ID {
		t.Fatal("same ID must return the same session")
	}
	if len(second.Turns) != 1 {
		t.Fatalf("expected 1 turn after append, got %d", len(second.Turns))
	}
}

func TestAppendTurnUpdatesUserState(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "so worried", emotion.Anxious, language.English)
	state := store.AppendTurn("s1", conversation.RoleUser, "theek hoon ab", emotion.Positive, language.Hinglish)

	if state.CurrentEmotion != emotion.Positive {
		t.Fatalf("current emotion should track the latest user turn, got %s", state.CurrentEmotion)
	}
	if state.LanguagePreference != language.Hinglish {
		t.Fatalf("language preference should track the latest user turn, got %s", state.LanguagePreference)
	}
	if len(state.EmotionTrajectory) != 2 {
		t.Fatalf("trajectory length must equal user turn count, got %d", len(state.EmotionTrajectory))
	}
}

func TestAssistantTurnsDoNotTouchTrajectory(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "hi", emotion.Neutral, language.English)
	state := store.AppendTurn("s1", conversation.RoleAssistant, "hello!", "", language.English)

	if len(state.EmotionTrajectory) != 1 {
		t.Fatalf("assistant turns must not extend the trajectory, got %d", len(state.EmotionTrajectory))
	}
	if state.CurrentEmotion != emotion.Neutral {
		t.Fatalf("assistant turns must not change current emotion, got %s", state.CurrentEmotion)
	}
}

func TestTrajectoryLengthMatchesUserTurns(t *testing.T) {
	store := NewStore()
	tags := []emotion.Tag{emotion.Anxious, emotion.Sad, emotion.Neutral, emotion.Positive, emotion.Angry}
	for i, tag := range tags {
		store.AppendTurn("s1", conversation.RoleUser, fmt.Sprintf("turn %d", i), tag, language.English)
		store.AppendTurn("s1", conversation.RoleAssistant, "reply", "", language.English)
	}

	state, _ := store.Get("s1")
	if len(state.EmotionTrajectory) != len(tags) {
		t.Fatalf("expected trajectory length %d, got %d", len(tags), len(state.EmotionTrajectory))
	}
	for i, tag := range tags {
		if state.EmotionTrajectory[i] != tag {
			t.Fatalf("trajectory out of order at %d: got %s want %s", i, state.EmotionTrajectory[i], tag)
		}
	}
}

func TestHistoryBoundedOldestFirst(t *testing.T) {
	store := NewStore()
	for i := 0; i < 30; i++ {
		store.AppendTurn("s1", conversation.RoleUser, fmt.Sprintf("message %d", i), emotion.Neutral, language.English)
	}

	history := store.History("s1", 5)
	if len(history) != 5 {
		t.Fatalf("expected 5 history items, got %d", len(history))
	}
	for i, item := range history {
		want := fmt.Sprintf("message %d", 25+i)
		if item.Content != want {
			t.Fatalf("history item %d: got %q want %q", i, item.Content, want)
		}
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	store := NewStore()
	if got := store.History("missing", 10); got != nil {
		t.Fatalf("unknown session history must be nil, got %v", got)
	}
}

func TestContextSummary(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "feeling sad", emotion.Sad, language.English)
	store.AppendTurn("s1", conversation.RoleUser, "a bit better now", emotion.Positive, language.English)
	store.SetCrisisFlag("s1", true)

	summary := store.ContextSummary("s1")
	for _, want := range []string{
		"2 user turns",
		"language preference: en",
		"emotional state: positive",
		"sad → positive",
		"feeling better",
		"CRISIS FLAG",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary %q missing %q", summary, want)
		}
	}
}

func TestContextSummaryStabilizingArc(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "feeling low", emotion.Sad, language.English)
	store.AppendTurn("s1", conversation.RoleUser, "okay I guess", emotion.Neutral, language.English)

	summary := store.ContextSummary("s1")
	if !strings.Contains(summary, "stabilizing") {
		t.Fatalf("summary %q missing stabilizing note", summary)
	}
	if !strings.Contains(summary, "sad → neutral") {
		t.Fatalf("summary %q missing trajectory arc", summary)
	}
}

func TestRefineEmotionUpdatesRecordedTurn(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "not sure how I feel", emotion.Neutral, language.English)
	store.AppendTurn("s1", conversation.RoleAssistant, "tell me more", "", language.English)

	store.RefineEmotion("s1", 0, emotion.Sad)

	state, _ := store.Get("s1")
	if state.CurrentEmotion != emotion.Sad {
		t.Fatalf("current emotion = %s, want sad", state.CurrentEmotion)
	}
	if state.EmotionTrajectory[0] != emotion.Sad {
		t.Fatalf("trajectory[0] = %s, want sad", state.EmotionTrajectory[0])
	}
	if state.Turns[0].Emotion != emotion.Sad {
		t.Fatalf("user turn emotion = %s, want sad", state.Turns[0].Emotion)
	}
}

func TestRefineEmotionOnlyLatestMovesCurrent(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "first", emotion.Neutral, language.English)
	store.AppendTurn("s1", conversation.RoleUser, "second", emotion.Anxious, language.English)

	// Refining an earlier turn must not disturb the current emotion.
	store.RefineEmotion("s1", 0, emotion.Sad)

	state, _ := store.Get("s1")
	if state.CurrentEmotion != emotion.Anxious {
		t.Fatalf("current emotion = %s, want anxious", state.CurrentEmotion)
	}
	if state.EmotionTrajectory[0] != emotion.Sad {
		t.Fatalf("trajectory[0] = %s, want sad", state.EmotionTrajectory[0])
	}

	// Out-of-range and unknown-session refinements are no-ops.
	store.RefineEmotion("s1", 5, emotion.Angry)
	store.RefineEmotion("missing", 0, emotion.Angry)
}

func TestContextSummaryUnknownSession(t *testing.T) {
	store := NewStore()
	if got := store.ContextSummary("missing"); !strings.Contains(got, "New session") {
		t.Fatalf("unknown session must read as new, got %q", got)
	}
}

func TestCloseRemovesSession(t *testing.T) {
	store := NewStore()
	store.AppendTurn("s1", conversation.RoleUser, "hello", emotion.Anxious, language.Hindi)
	store.SetCrisisFlag("s1", true)

	summary, ok := store.Close("s1")
	if !ok {
		t.Fatal("expected close to succeed")
	}
	for _, want := range []string{"1 user turns", "Language: hi", "anxious", "Crisis flag: Yes"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary %q missing %q", summary, want)
		}
	}

	if _, ok := store.Get("s1"); ok {
		t.Fatal("closed session must be gone")
	}
	if _, ok := store.Close("s1"); ok {
		t.Fatal("double close must report absent")
	}
}

func TestCloseEmptySession(t *testing.T) {
	store := NewStore()
	store.Create("s1")
	summary, ok := store.Close("s1")
	if !ok || !strings.Contains(summary, "without meaningful interaction") {
		t.Fatalf("unexpected summary %q ok=%v", summary, ok)
	}
}

func TestSweepStale(t *testing.T) {
	store := NewStore()
	store.Create("old")
	store.Create("fresh")

	// Age the old session directly.
	store.mu.Lock()
	store.sessions["old"].LastActivity = time.Now().UTC().Add(-time.Hour)
	store.mu.Unlock()

	removed := store.SweepStale(30 * time.Minute)
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, ok := store.Get("old"); ok {
		t.Fatal("stale session must be removed")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatal("fresh session must survive the sweep")
	}
}

func TestBeginTurnSerializesArrivalOrder(t *testing.T) {
	store := NewStore()

	release := store.BeginTurn("s1")

	var mu sync.Mutex
	var order []string

	queued := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(queued)
		second := store.BeginTurn("s1")
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
		second()
		close(done)
	}()

	<-queued
	// Give the second caller time to block on the slot.
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	order = append(order, "first")
	mu.Unlock()
	release()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("turn order violated: %v", order)
	}
}

func TestBeginTurnIndependentSessions(t *testing.T) {
	store := NewStore()

	releaseA := store.BeginTurn("a")
	finished := make(chan struct{})
	go func() {
		releaseB := store.BeginTurn("b")
		releaseB()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("turn slots for different sessions must not block each other")
	}
	releaseA()
}

func TestBeginTurnReusableAfterRelease(t *testing.T) {
	store := NewStore()
	for i := 0; i < 10; i++ {
		release := store.BeginTurn("s1")
		release()
	}
}

func TestSilenceResponseTiers(t *testing.T) {
	r5 := SilenceResponse(5, "en")
	r10 := SilenceResponse(10, "en")
	r15 := SilenceResponse(15, "en")
	r20 := SilenceResponse(20, "en")
	r30 := SilenceResponse(30, "en")

	distinct := map[string]struct{}{r5: {}, r10: {}, r15: {}, r20: {}}
	if len(distinct) != 4 {
		t.Fatalf("expected 4 distinct tier responses, got %d", len(distinct))
	}
	if r30 != r20 {
		t.Fatalf("durations past the last tier must clamp: got %q want %q", r30, r20)
	}
}

func TestSilenceResponseLanguageSelection(t *testing.T) {
	if got := SilenceResponse(5, "hi"); got != "Koi jaldi nahi. Main yahan hoon." {
		t.Fatalf("unexpected hindi response %q", got)
	}
	if got := SilenceResponse(5, "hi-en"); got != "Koi jaldi nahi. Main yahan hoon." {
		t.Fatalf("hinglish must use the hindi tier, got %q", got)
	}
	if got := SilenceResponse(5, "en"); got != "Take your time. I'm right here." {
		t.Fatalf("unexpected english response %q", got)
	}
	if got := SilenceResponse(3, "en"); got != "Take your time. I'm right here." {
		t.Fatalf("durations below the first tier use it, got %q", got)
	}
}
