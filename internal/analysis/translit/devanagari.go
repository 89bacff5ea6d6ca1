// Package translit converts Devanagari script to a Roman-letter
// representation via a fixed glyph substitution table. The mapping is
// deterministic so transcripts romanized here are reproducible in tests:
// vowel signs attach to the preceding consonant, a bare consonant
// carries the inherent "a" vowel, and the virama suppresses it.
package translit

import "strings"

var independentVowels = map[rune]string{
	'अ': "a", 'आ': "aa", 'इ': "i", 'ई': "ee", 'उ': "u", 'ऊ': "oo",
	'ऋ': "ri", 'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au",
}

// vowelSigns (matras) replace the inherent vowel of the consonant they follow.
var vowelSigns = map[rune]string{
	'ा': "aa", 'ि': "i", 'ी': "ee", 'ु': "u", 'ू': "oo",
	'ृ': "ri", 'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au",
}

var consonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "ng",
	'च': "ch", 'छ': "chh", 'ज': "j", 'झ': "jh", 'ञ': "ny",
	'ट': "t", 'ठ': "th", 'ड': "d", 'ढ': "dh", 'ण': "n",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ल': "l", 'व': "v",
	'श': "sh", 'ष': "sh", 'स': "s", 'ह': "h", 'ळ': "l",
	// Precomposed nukta consonants, U+0958 through U+095F.
	'क़': "q", 'ख़': "kh", 'ग़': "g", 'ज़': "z",
	'ड़': "r", 'ढ़': "rh", 'फ़': "f", 'य़': "y",
}

// nuktaForms overrides a base consonant when a combining nukta (U+093C)
// follows it, the decomposed spelling of the U+0958..U+095F block.
var nuktaForms = map[rune]string{
	'क': "q", 'ख': "kh", 'ग': "g", 'ज': "z",
	'ड': "r", 'ढ': "rh", 'फ': "f", 'य': "y",
}

var signs = map[rune]string{
	'ं': "n", // anusvara
	'ँ': "n", // chandrabindu
	'ः': "h", // visarga
	'।': ".", // danda
}

const (
	virama = '्'
	nukta  = '़'
)

// ToRoman transliterates every Devanagari sequence in text; characters
// outside the block pass through unchanged.
func ToRoman(text string) string {
	runes := []rune(text)
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if base, ok := consonants[r]; ok {
			if i+1 < len(runes) && runes[i+1] == nukta {
				if alt, hasAlt := nuktaForms[r]; hasAlt {
					base = alt
				}
				i++
			}
			out.WriteString(base)
			if i+1 < len(runes) {
				next := runes[i+1]
				if sign, ok := vowelSigns[next]; ok {
					out.WriteString(sign)
					i++
					continue
				}
				if next == virama {
					i++
					continue
				}
			}
			out.WriteString("a")
			continue
		}

		if v, ok := independentVowels[r]; ok {
			out.WriteString(v)
			continue
		}
		if s, ok := signs[r]; ok {
			out.WriteString(s)
			continue
		}
		// Orphan vowel signs or viramas (malformed input) are dropped;
		// everything else passes through.
		if _, ok := vowelSigns[r]; ok || r == virama || r == nukta {
			continue
		}
		out.WriteRune(r)
	}

	return out.String()
}

// HasDevanagari reports whether text contains any Devanagari character.
func HasDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
