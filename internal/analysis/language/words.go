package language

// romanizedHindiWords holds roughly the hundred most frequent romanized
// Hindi words, used for the ratio fallback in Detect. Versioned as a
// static table so the matching logic can be tested independently of the
// vocabulary.
var romanizedHindiWords = map[string]struct{}{}

func init() {
	words := []string{
		"hai", "hain", "ho", "hoon", "nahi", "nahin", "nhi",
		"kya", "kaise", "kaisa", "kaisi", "kyun", "kyu", "kyunki",
		"mein", "main", "mera", "meri", "mere", "humara",
		"tum", "tumhara", "tumhari", "aap", "aapka", "aapki",
		"woh", "yeh", "ye", "isko", "usko",
		"aur", "par", "lekin", "phir", "toh", "bhi",
		"bohot", "bahut", "bahot", "zyada", "thoda", "kam",
		"achha", "achhi", "bura", "buri", "theek",
		"karna", "karte", "karti", "karta", "kar",
		"hona", "hota", "hoti", "hua", "hui",
		"jaana", "jata", "jati", "gaya", "gayi", "jao",
		"aana", "aata", "aati", "aaya", "aayi", "aao",
		"bolna", "bolta", "bolti", "bolo", "bol",
		"sunna", "sunta", "sunti", "suno", "sun",
		"dekhna", "dekhta", "dekhti", "dekho", "dekh",
		"samajhna", "samajhta", "samajhti", "samjho",
		"abhi", "ab", "tab", "jab", "kabhi", "hamesha",
		"ghar", "kaam", "log", "dost", "yaar",
		"mann", "dil", "zindagi", "duniya",
		"please", "matlab", "wala", "wali", "chahta", "chahti",
		"chahiye", "sakta", "sakti", "raha", "rahi",
		"bilkul", "sach", "jhooth", "pata", "maloom",
		"paisa", "time", "jagah", "baat", "sawaal",
		"lagta", "lagti", "laga", "lagi",
		"rehta", "rehti", "reh", "rehna",
		"milta", "milti", "mila", "mili",
	}
	for _, w := range words {
		romanizedHindiWords[w] = struct{}{}
	}
}
