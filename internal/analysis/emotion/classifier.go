// Package emotion tags user text with one of six emotion categories
// using bilingual keyword lists. This is the fast, deterministic
// strategy used synchronously on every turn; the LLM-backed strategy
// lives in service/emotion.
package emotion

import (
	"fmt"
	"strings"
)

// Tag is an emotion category. Tags are unordered; there is no numeric
// intensity.
type Tag string

const (
	Anxious    Tag = "anxious"
	Sad        Tag = "sad"
	Angry      Tag = "angry"
	Frustrated Tag = "frustrated"
	Neutral    Tag = "neutral"
	Positive   Tag = "positive"
)

// Crisis is a sentinel reported by the pipeline on the crisis branch.
// It is not a classification outcome.
const Crisis = "crisis"

// Tags lists every classification outcome, in cascade order.
var Tags = []Tag{Anxious, Sad, Angry, Frustrated, Neutral, Positive}

// cascade holds the keyword buckets in the order they are checked.
// First bucket with any match wins.
var cascade = []struct {
	tag   Tag
	words []string
}{
	{Anxious, []string{
		"worried", "anxious", "nervous", "panic", "overthinking", "can't stop thinking",
		"scared", "afraid", "tension", "dar", "ghabra", "chinta", "soch", "thinking too much",
		"bohot tension", "dar lag raha", "ghabrahat", "tanav", "tanaav",
	}},
	{Sad, []string{
		"sad", "lonely", "alone", "crying", "depressed", "hopeless", "empty", "lost",
		"miss", "grief", "dukhi", "udaas", "akela", "rona", "aansu", "kuch nahi hoga",
		"bohot bura", "mann nahi", "tanha",
	}},
	{Angry, []string{
		"angry", "furious", "hate", "sick of", "fed up", "pissed",
		"gussa", "nafrat", "tang aa gaya", "bardasht nahi", "chid",
	}},
	{Frustrated, []string{
		"stuck", "overwhelmed", "can't do this", "nothing works", "frustrated",
		"burnout", "exhausted", "giving up",
		"thak gaya", "kuch nahi ho raha", "haar", "majboor", "pareshan",
	}},
	{Positive, []string{
		"better", "good", "happy", "hopeful", "grateful", "thank",
		"relieved", "calm", "peaceful",
		"achha", "behtar", "khushi", "shukriya", "theek", "achha lag raha",
	}},
}

// Classify maps text to an emotion tag via substring containment against
// the bilingual keyword buckets. Never fails; no match means neutral.
func Classify(text string) Tag {
	if strings.TrimSpace(text) == "" {
		return Neutral
	}

	lower := strings.ToLower(text)
	for _, bucket := range cascade {
		for _, word := range bucket.words {
			if strings.Contains(lower, word) {
				return bucket.tag
			}
		}
	}
	return Neutral
}

// ParseTag maps a raw label (typically LLM output) to a Tag.
func ParseTag(raw string) (Tag, bool) {
	switch Tag(strings.ToLower(strings.TrimSpace(raw))) {
	case Anxious:
		return Anxious, true
	case Sad:
		return Sad, true
	case Angry:
		return Angry, true
	case Frustrated:
		return Frustrated, true
	case Neutral:
		return Neutral, true
	case Positive:
		return Positive, true
	default:
		return "", false
	}
}

// TrajectorySummary describes the recent emotional arc for prompt
// context, looking at the last three entries only. The rules are checked
// in priority order; the first match produces the description.
func TrajectorySummary(trajectory []Tag) string {
	if len(trajectory) == 0 {
		return "No emotional trajectory data yet."
	}
	if len(trajectory) == 1 {
		return fmt.Sprintf("User's current emotional state: %s", trajectory[0])
	}

	recent := trajectory
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	arc := joinTags(recent)

	last := recent[len(recent)-1]
	prev := recent[len(recent)-2]

	if last == Positive {
		return fmt.Sprintf("Emotion trajectory: %s. User seems to be feeling better.", arc)
	}
	if last == Neutral && (prev == Sad || prev == Anxious) {
		return fmt.Sprintf("Emotion trajectory: %s. User appears to be stabilizing.", arc)
	}
	if allDistressed(recent) {
		return fmt.Sprintf("Emotion trajectory: %s. User has been consistently distressed.", arc)
	}
	return fmt.Sprintf("Emotion trajectory: %s.", arc)
}

func allDistressed(tags []Tag) bool {
	for _, tag := range tags {
		if tag != Sad && tag != Anxious {
			return false
		}
	}
	return true
}

func joinTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, " → ")
}
