package safety

import (
	"fmt"
	"sort"
	"strings"
)

// Helplines lists the verified support numbers included in every
// non-safe response. Pre-approved text only; never generated.
var Helplines = map[string]string{
	"iCall":                 "9152987821",
	"Vandrevala Foundation": "1860-2662-345",
	"iMind":                 "040-39246955",
}

var (
	crisisResponseEN = fmt.Sprintf(
		"What you're feeling matters, and I'm really glad you shared that with me. "+
			"You don't have to go through this alone. I want to make sure you get the right support. "+
			"Please reach out to one of these helplines — they're available to talk right now:\n\n"+
			"• iCall: %s\n"+
			"• Vandrevala Foundation: %s\n"+
			"• iMind: %s\n\n"+
			"I'll stay here with you. Will you reach out to one of those numbers?",
		Helplines["iCall"], Helplines["Vandrevala Foundation"], Helplines["iMind"])

	crisisResponseHI = fmt.Sprintf(
		"Jo aap feel kar rahe hain woh mayne rakhta hai. Aapne bataya, yeh bahut zaroori tha. "+
			"Aapko akele se nahi guzarna hai. Main chahta hoon ki aapko sahi madad mile. "+
			"Please in helplines pe call karein — yeh abhi available hain:\n\n"+
			"• iCall: %s\n"+
			"• Vandrevala Foundation: %s\n"+
			"• iMind: %s\n\n"+
			"Main aapke saath hoon. Kya aap in mein se kisi number pe call karenge?",
		Helplines["iCall"], Helplines["Vandrevala Foundation"], Helplines["iMind"])

	warningResponseEN = fmt.Sprintf(
		"I hear you, and what you're going through sounds really hard. "+
			"I want you to know — if things ever feel too heavy, there are people who can help. "+
			"You can reach iCall at %s or Vandrevala Foundation at %s anytime. "+
			"I'm here too. Would you like to keep talking?",
		Helplines["iCall"], Helplines["Vandrevala Foundation"])

	warningResponseHI = fmt.Sprintf(
		"Main sun raha hoon, aur yeh sach mein bahut mushkil lagta hai. "+
			"Agar kabhi cheezein bahut bhaari lagein, toh madad ke liye log hain. "+
			"iCall pe call kar sakte hain: %s ya Vandrevala Foundation: %s. "+
			"Main bhi yahan hoon. Kya baat karna chahenge?",
		Helplines["iCall"], Helplines["Vandrevala Foundation"])
)

// CrisisResponse returns the pre-approved crisis script for a language code.
func CrisisResponse(langCode string) string {
	if langCode == "hi" || langCode == "hi-en" {
		return crisisResponseHI
	}
	return crisisResponseEN
}

// HelplinesText renders the helpline directory as display text.
func HelplinesText() string {
	names := make([]string, 0, len(Helplines))
	for name := range Helplines {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("• %s: %s", name, Helplines[name]))
	}
	return strings.Join(lines, "\n")
}
