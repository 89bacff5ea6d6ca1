// Package safety screens user text for crisis indicators before any
// generation step. The check is hardcoded and cannot be skipped or
// overridden by configuration, prompt content, or any other component.
package safety

import (
	"regexp"
	"strings"
)

// Level is the safety severity tier, totally ordered by severity.
type Level string

const (
	LevelSafe    Level = "safe"
	LevelWarning Level = "warning"
	LevelCrisis  Level = "crisis"
)

// Result is the outcome of one safety classification.
type Result struct {
	Level           Level             `json:"level"`
	MatchedKeywords []string          `json:"matchedKeywords,omitempty"`
	Response        string            `json:"response,omitempty"`
	Helplines       map[string]string `json:"helplines,omitempty"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalize(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// matchKeywords returns every keyword contained in the normalized text.
// Substring containment, not word-boundary matching: the Hindi keyword
// set has compound and inflected forms that boundary matching would
// miss, so recall wins over precision here.
func matchKeywords(normalized string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(normalized, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Check scans text against both language keyword sets regardless of the
// declared language — a user may switch languages mid-message. It never
// fails; empty input is SAFE. Crisis matches dominate warning matches.
func Check(text, langHint string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Level: LevelSafe}
	}

	normalized := normalize(text)

	crisisEN := matchKeywords(normalized, crisisKeywordsEN)
	crisisHI := matchKeywords(normalized, crisisKeywordsHI)
	if len(crisisEN)+len(crisisHI) > 0 {
		return Result{
			Level:           LevelCrisis,
			MatchedKeywords: append(crisisEN, crisisHI...),
			Response:        selectScript(langHint, len(crisisHI) > 0, crisisResponseHI, crisisResponseEN),
			Helplines:       Helplines,
		}
	}

	warnEN := matchKeywords(normalized, warningKeywordsEN)
	warnHI := matchKeywords(normalized, warningKeywordsHI)
	if len(warnEN)+len(warnHI) > 0 {
		return Result{
			Level:           LevelWarning,
			MatchedKeywords: append(warnEN, warnHI...),
			Response:        selectScript(langHint, len(warnHI) > 0, warningResponseHI, warningResponseEN),
			Helplines:       Helplines,
		}
	}

	return Result{Level: LevelSafe}
}

// selectScript picks the Hindi script when the declared language is
// Hindi/Hinglish or any Hindi-list keyword matched, else English.
func selectScript(langHint string, hindiMatched bool, hindiScript, englishScript string) string {
	if langHint == "hi" || langHint == "hi-en" || hindiMatched {
		return hindiScript
	}
	return englishScript
}
