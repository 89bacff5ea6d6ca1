package session

import "sort"

// silenceTiers maps a silence duration ceiling (seconds) to the gentle
// prompt spoken when the user has been quiet that long. Durations beyond
// the highest tier clamp to it.
var silenceTiers = map[int]map[string]string{
	5: {
		"en": "Take your time. I'm right here.",
		"hi": "Koi jaldi nahi. Main yahan hoon.",
	},
	10: {
		"en": "No rush at all. We can just sit here.",
		"hi": "Bilkul theek hai. Baat na karein toh bhi.",
	},
	15: {
		"en": "It's okay if you don't want to talk right now.",
		"hi": "Koi baat nahi agar abhi baat nahi karni.",
	},
	20: {
		"en": "Take care. Come back anytime you'd like.",
		"hi": "Apna khayal rakhein. Jab chahein aayein.",
	},
}

// SilenceResponse returns the templated line for a silence duration.
// The smallest tier covering the duration wins; anything past the last
// tier reuses that tier's line.
func SilenceResponse(silenceSeconds int, langCode string) string {
	key := "en"
	if langCode == "hi" || langCode == "hi-en" {
		key = "hi"
	}

	thresholds := make([]int, 0, len(silenceTiers))
	for threshold := range silenceTiers {
		thresholds = append(thresholds, threshold)
	}
	sort.Ints(thresholds)

	for _, threshold := range thresholds {
		if silenceSeconds <= threshold {
			return silenceTiers[threshold][key]
		}
	}
	return silenceTiers[thresholds[len(thresholds)-1]][key]
}
