package language

import (
	"strings"
	"testing"
)

func TestDetectTrustsUpstreamHint(t *testing.T) {
	cases := []struct {
		hint string
		want Language
	}{
		{"en", English},
		{"english", English},
		{"hi", Hindi},
		{"hindi", Hindi},
		{"hi-en", Hinglish},
		{"hinglish", Hinglish},
		{"hi-eng", Hinglish},
		{"EN", English},
		{" hi ", Hindi},
	}

	for _, tc := range cases {
		// Text content is deliberately contradictory; the hint wins.
		if got := Detect("मुझे बहुत तनाव हो रहा है", tc.hint); got != tc.want {
			t.Fatalf("hint %q: got %s want %s", tc.hint, got, tc.want)
		}
	}
}

func TestDetectUnrecognizedHintFallsThrough(t *testing.T) {
	if got := Detect("मुझे बहुत तनाव हो रहा है", "fr"); got != Hindi {
		t.Fatalf("expected Devanagari fallthrough to Hindi, got %s", got)
	}
}

func TestDetectDevanagari(t *testing.T) {
	if got := Detect("मुझे बहुत तनाव हो रहा है", ""); got != Hindi {
		t.Fatalf("expected Hindi, got %s", got)
	}
	if got := Detect("मुझे stress हो रहा है", ""); got != Hindi {
		t.Fatalf("mixed-script text should still be Hindi, got %s", got)
	}
}

func TestDetectHinglishPatterns(t *testing.T) {
	if got := Detect("Yaar I'm really stressed aur ghar pe bhi pressure hai", ""); got != Hinglish {
		t.Fatalf("expected Hinglish, got %s", got)
	}
}

func TestDetectRomanizedHindiRatio(t *testing.T) {
	got := Detect("Mujhe koi samajhta nahi hai ghar pe", "")
	if got != Hindi && got != Hinglish {
		t.Fatalf("expected Hindi or Hinglish for heavy romanized text, got %s", got)
	}
}

func TestDetectPureEnglish(t *testing.T) {
	if got := Detect("I am feeling stressed about work today", ""); got != English {
		t.Fatalf("expected English, got %s", got)
	}
	if got := Detect("Hello, how are you doing?", ""); got != English {
		t.Fatalf("expected English, got %s", got)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	if got := Detect("", ""); got != English {
		t.Fatalf("empty text should default to English, got %s", got)
	}
	if got := Detect("   ", ""); got != English {
		t.Fatalf("whitespace text should default to English, got %s", got)
	}
}

func TestPipelineFor(t *testing.T) {
	if PipelineFor(English) != PipelineNative {
		t.Fatal("English should use the native pipeline")
	}
	if PipelineFor(Hindi) != PipelineSecondary {
		t.Fatal("Hindi should use the secondary pipeline")
	}
	if PipelineFor(Hinglish) != PipelineSecondary {
		t.Fatal("Hinglish should use the secondary pipeline")
	}
}

func TestInstructionPerLanguage(t *testing.T) {
	en := Instruction(English)
	hi := Instruction(Hindi)
	mixed := Instruction(Hinglish)

	if en == hi || hi == mixed || en == mixed {
		t.Fatal("each language needs a distinct generation instruction")
	}
	if want := "Mirror the user's mixing style"; !strings.Contains(mixed, want) {
		t.Fatalf("Hinglish instruction must tell the generator to mirror mixing, got %q", mixed)
	}
}
