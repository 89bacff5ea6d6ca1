package safety

import (
	"strings"
	"testing"
)

func TestCrisisDetectionEnglish(t *testing.T) {
	inputs := []string{
		"I want to kill myself",
		"I just want to die",
		"I've been hurting myself lately",
		"I want to end my life",
		"I'm feeling suicidal",
		"I hope I don't wake up tomorrow",
		"I've already written a note for everyone",
		"There's no reason to live anymore",
	}

	for _, input := range inputs {
		result := Check(input, "en")
		if result.Level != LevelCrisis {
			t.Fatalf("%q: expected crisis, got %s", input, result.Level)
		}
		if len(result.MatchedKeywords) == 0 {
			t.Fatalf("%q: crisis result must carry matched keywords", input)
		}
		if result.Response == "" {
			t.Fatalf("%q: crisis result must carry a response script", input)
		}
	}
}

func TestCrisisDetectionHindi(t *testing.T) {
	inputs := []string{
		"Main khudkushi karna chahta hoon",
		"Main mar jaana chahta hoon",
		"Mujhe jeena nahi chahta",
		"Main khud ko hurt karna chahta hoon",
		"Mujhe apni life end karna hai",
	}

	for _, input := range inputs {
		result := Check(input, "hi")
		if result.Level != LevelCrisis {
			t.Fatalf("%q: expected crisis, got %s", input, result.Level)
		}
	}
}

func TestCrisisCrossLanguage(t *testing.T) {
	// An English crisis phrase with a Hindi declared language must still
	// trip, and vice versa.
	result := Check("I want to kill myself", "hi")
	if result.Level != LevelCrisis {
		t.Fatalf("expected crisis for cross-language check, got %s", result.Level)
	}

	result = Check("Main khudkushi karna chahta hoon", "en")
	if result.Level != LevelCrisis {
		t.Fatalf("expected crisis for Hindi phrase under en hint, got %s", result.Level)
	}
	// Hindi keyword matched, so the Hindi script is selected even under "en".
	if !strings.Contains(result.Response, "aapke saath") {
		t.Fatalf("expected Hindi crisis script, got %q", result.Response)
	}
}

func TestCrisisResponseContents(t *testing.T) {
	result := Check("I want to end it all", "en")
	if result.Level != LevelCrisis {
		t.Fatalf("expected crisis, got %s", result.Level)
	}
	if result.Helplines == nil {
		t.Fatal("crisis result must carry helplines")
	}
	if _, ok := result.Helplines["iCall"]; !ok {
		t.Fatal("helplines must include iCall")
	}
	if !strings.Contains(result.Response, "9152987821") {
		t.Fatalf("crisis response must include the iCall number, got %q", result.Response)
	}
}

func TestWarningDetection(t *testing.T) {
	inputs := []string{
		"I can't take it anymore",
		"I'm tired of living like this",
		"Nobody cares about me anyway",
		"Thak gaya hoon sab se",
		"Sab bekar hai yaar",
	}

	for _, input := range inputs {
		result := Check(input, "en")
		if result.Level != LevelWarning {
			t.Fatalf("%q: expected warning, got %s", input, result.Level)
		}
		if result.Response == "" || result.Helplines == nil {
			t.Fatalf("%q: warning result must carry advisory text and helplines", input)
		}
	}
}

func TestCrisisDominatesWarning(t *testing.T) {
	// Contains both a warning phrase and a crisis phrase.
	result := Check("I can't take it anymore, I want to end my life", "en")
	if result.Level != LevelCrisis {
		t.Fatalf("crisis must dominate warning, got %s", result.Level)
	}
}

func TestWarningAndCrisisScriptsDiffer(t *testing.T) {
	crisis := Check("I want to kill myself", "en")
	warning := Check("I can't take it anymore", "en")
	if crisis.Response == warning.Response {
		t.Fatal("crisis and warning scripts must be distinct")
	}
}

func TestSafeInputs(t *testing.T) {
	inputs := []string{
		"I'm really stressed about work",
		"Aaj ka din achha tha",
		"I had an argument with my friend",
	}

	for _, input := range inputs {
		result := Check(input, "en")
		if result.Level != LevelSafe {
			t.Fatalf("%q: expected safe, got %s (matches %v)", input, result.Level, result.MatchedKeywords)
		}
		if result.Response != "" || result.Helplines != nil {
			t.Fatalf("%q: safe result must carry no payload", input)
		}
	}
}

func TestEmptyInputIsSafe(t *testing.T) {
	if got := Check("", "en").Level; got != LevelSafe {
		t.Fatalf("empty input must be safe, got %s", got)
	}
	if got := Check("   \n\t ", "hi").Level; got != LevelSafe {
		t.Fatalf("whitespace input must be safe, got %s", got)
	}
}

func TestNormalizationCollapsesWhitespace(t *testing.T) {
	result := Check("I want to   KILL\n\nmyself", "en")
	if result.Level != LevelCrisis {
		t.Fatalf("normalization must collapse whitespace and case, got %s", result.Level)
	}
}

func TestHindiScriptSelectionForHindiHint(t *testing.T) {
	result := Check("I want to kill myself", "hi-en")
	if !strings.Contains(result.Response, "Main aapke saath hoon") {
		t.Fatalf("hi-en hint must select the Hindi script, got %q", result.Response)
	}
}
