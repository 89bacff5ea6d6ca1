// Package language classifies user text into English, Hindi, or Hinglish
// and decides which speech pipeline serves each language.
package language

import (
	"regexp"
	"strings"
)

// Language is a closed set of supported language tags.
type Language string

const (
	English  Language = "en"
	Hindi    Language = "hi"
	Hinglish Language = "hi-en"
)

// Pipeline names the speech backend family a language is served by.
type Pipeline string

const (
	// PipelineNative is the latency-optimized English backend.
	PipelineNative Pipeline = "native"
	// PipelineSecondary is the Indian-language-optimized backend.
	PipelineSecondary Pipeline = "secondary"
)

var devanagariPattern = regexp.MustCompile(`[\x{0900}-\x{097F}]`)

// hinglishPatterns flag code-mixing: Hindi discourse markers alongside
// English function words, or emotion/work vocabulary alongside Hindi verb forms.
var hinglishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(yaar|bhai|dude)\b.*\b(is|am|was|the|but|and)\b`),
	regexp.MustCompile(`\b(is|am|was|the|but|and)\b.*\b(yaar|bhai|hai|nahi)\b`),
	regexp.MustCompile(`\b(feel|stressed|anxiety|work)\b.*\b(hai|hoon|raha|rahi)\b`),
	regexp.MustCompile(`\b(bohot|bahut|kuch)\b.*\b(stressed|tired|done|busy)\b`),
}

// Detect classifies text into one of the three supported languages.
// It never fails; empty input maps to English.
//
// Decision order, first match wins:
//  1. A recognized upstream hint is trusted verbatim, text ignored.
//  2. Any Devanagari character means Hindi.
//  3. Code-mixing patterns mean Hinglish.
//  4. Romanized-Hindi word ratio: >0.5 Hindi, >0.2 Hinglish, else English.
//
// The layered fallback deliberately favors Hindi/Hinglish on ambiguity:
// misrouting a Hindi speaker into the English pipeline degrades the
// experience more than the reverse.
func Detect(text, upstreamHint string) Language {
	if hint := strings.ToLower(strings.TrimSpace(upstreamHint)); hint != "" {
		switch hint {
		case "en", "english":
			return English
		case "hi", "hindi":
			return Hindi
		case "hi-en", "hinglish", "hi-eng":
			return Hinglish
		}
	}

	if strings.TrimSpace(text) == "" {
		return English
	}

	if devanagariPattern.MatchString(text) {
		return Hindi
	}

	lower := strings.ToLower(text)
	for _, pattern := range hinglishPatterns {
		if pattern.MatchString(lower) {
			return Hinglish
		}
	}

	words := strings.Fields(lower)
	if len(words) > 0 {
		hindiCount := 0
		for _, w := range words {
			if _, ok := romanizedHindiWords[strings.Trim(w, ".,!?;:'\"")]; ok {
				hindiCount++
			}
		}
		ratio := float64(hindiCount) / float64(len(words))
		if ratio > 0.5 {
			return Hindi
		}
		if ratio > 0.2 {
			return Hinglish
		}
	}

	return English
}

// PipelineFor maps a language to the speech backend that serves it.
func PipelineFor(lang Language) Pipeline {
	if lang == English {
		return PipelineNative
	}
	return PipelineSecondary
}

// Instruction returns the per-turn directive that steers the generator's
// response language and style.
func Instruction(lang Language) string {
	switch lang {
	case Hindi:
		return "Respond in Hindi (Romanized/Hinglish script). " +
			"Use natural Hindi as spoken by young adults in India. " +
			"Example: 'Main samajh sakta hoon, yeh bohot mushkil hai.'"
	case Hinglish:
		return "Respond in Hinglish — a natural mix of Hindi and English as spoken by young Indians. " +
			"Mirror the user's mixing style. " +
			"Example: 'Yaar I understand, yeh sach mein bohot heavy hai.'"
	default:
		return "Respond in English. Use warm, conversational English with natural contractions."
	}
}
