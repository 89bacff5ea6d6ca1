package safety

// Crisis and warning keyword tables, English and Hindi/Hinglish.
// These are hardcoded and non-overridable: no configuration path may
// replace or disable them.

var crisisKeywordsEN = []string{
	// Direct self-harm
	"kill myself", "want to die", "end my life", "end it all",
	"suicide", "suicidal", "self harm", "self-harm", "hurt myself",
	"hurting myself", "cut myself", "cutting myself",
	// Hopelessness indicators
	"no reason to live", "better off dead", "don't want to be alive",
	"can't go on", "nothing left to live for", "wish i was dead",
	"wish i were dead", "want to disappear", "not worth living",
	// Planning indicators
	"wrote a note", "written a note", "saying goodbye", "giving away my things",
	"have a plan", "know how to end it",
	// Passive death wish
	"wouldn't mind dying", "hope i don't wake up",
	"if i didn't exist", "world without me",
}

var crisisKeywordsHI = []string{
	// Direct self-harm
	"khud ko hurt karna", "khud ko maarna", "khudkushi",
	"aatmhatya", "suicide karna", "mar jaana chahta",
	"mar jaana chahti", "mar jana chahta", "mar jana chahti",
	"jeena nahi chahta", "jeena nahi chahti",
	"jina nahi chahta", "jina nahi chahti",
	// Hopelessness
	"sab khatam karna hai", "sab khatam kar dena",
	"koi faayda nahi", "koi fayda nahi",
	"jeene ka mann nahi", "jine ka mann nahi",
	"zindagi se tang", "zindagi se thak gaya",
	"zindagi se thak gayi",
	// Planning
	"plan banaya hai", "soch liya hai", "faisla kar liya",
	// Mixed / Hinglish
	"life end karna", "khud ko khatam", "apne aap ko hurt",
	"apni life khatam", "mujhe nahi jeena",
	"main nahi reh sakta", "main nahi reh sakti",
	// Devanagari romanization variants
	"naheen jeena", "aatmahatya", "khudakushee",
}

// Warning-level keywords are more ambiguous but still worth flagging.
var warningKeywordsEN = []string{
	"don't want to be here", "can't take it anymore", "so done with everything",
	"tired of living", "nothing matters", "what's the point",
	"nobody cares", "no one would miss me", "burden to everyone",
	"done with life", "give up on everything",
}

var warningKeywordsHI = []string{
	"thak gaya hoon sab se", "thak gayi hoon sab se",
	"kuch nahi hoga", "kisi ko fark nahi padta",
	"sab bekar hai", "main bojh hoon",
	"haar maan li", "haar man li",
	"koi matlab nahi", "khatam ho gaya sab",
}
