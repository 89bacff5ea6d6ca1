package translit

import "testing"

func TestToRomanStressPhrase(t *testing.T) {
	got := ToRoman("मुझे बहुत तनाव हो रहा है")
	want := "mujhe bahuta tanaava ho rahaa hai"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestToRomanVowelSigns(t *testing.T) {
	cases := []struct{ in, want string }{
		{"मुझे", "mujhe"},
		{"है", "hai"},
		{"हो", "ho"},
		{"नहीं", "naheen"},
		{"दिल", "dila"},
	}
	for _, tc := range cases {
		if got := ToRoman(tc.in); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestToRomanViramaSuppressesInherentVowel(t *testing.T) {
	// हिन्दी: the virama joins न and द into a cluster with no vowel between.
	if got := ToRoman("हिन्दी"); got != "hindee" {
		t.Fatalf("got %q want %q", got, "hindee")
	}
}

func TestToRomanIndependentVowels(t *testing.T) {
	if got := ToRoman("आप"); got != "aapa" {
		t.Fatalf("got %q want %q", got, "aapa")
	}
	if got := ToRoman("अब"); got != "aba" {
		t.Fatalf("got %q want %q", got, "aba")
	}
}

func TestToRomanNuktaConsonants(t *testing.T) {
	// Both Unicode spellings of a nukta consonant romanize the same way:
	// the precomposed codepoint and the base consonant plus combining nukta.
	cases := []struct{ in, want string }{
		{"ज़िंदगी", "zindagee"},       // ज़िंदगी precomposed
		{"ज़िंदगी", "zindagee"}, // ज + ◌़ decomposed
		{"थोड़ा", "thoraa"},               // थोड़ा decomposed
		{"क़", "qa"},                                           // क़ precomposed
		{"फ़ोन", "fona"},                             // फ़ोन precomposed
	}
	for _, tc := range cases {
		if got := ToRoman(tc.in); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestToRomanPassesThroughNonDevanagari(t *testing.T) {
	if got := ToRoman("mujhe stress हो रहा है!"); got != "mujhe stress ho rahaa hai!" {
		t.Fatalf("got %q", got)
	}
	if got := ToRoman("plain english"); got != "plain english" {
		t.Fatalf("latin text must pass through, got %q", got)
	}
}

func TestToRomanDeterministic(t *testing.T) {
	in := "मुझे बहुत तनाव हो रहा है"
	first := ToRoman(in)
	for i := 0; i < 5; i++ {
		if ToRoman(in) != first {
			t.Fatal("transliteration must be deterministic")
		}
	}
}

func TestHasDevanagari(t *testing.T) {
	if !HasDevanagari("थोड़ा stress") {
		t.Fatal("expected detection of Devanagari")
	}
	if HasDevanagari("thoda stress") {
		t.Fatal("latin-only text has no Devanagari")
	}
}
