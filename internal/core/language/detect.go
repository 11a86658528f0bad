package language

import "unicode"

// greekThreshold Greek/non-space ratio above which text counts as Greek
const greekThreshold = 0.3

// Detect classifies text as Greek or English by script. It counts runes in
// the Greek and Coptic block (U+0370–U+03FF) and the Greek Extended block
// (U+1F00–U+1FFF) against all non-whitespace runes in a single pass.
// Empty or whitespace-only text is English.
func Detect(text string) Code {
	var greek, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isGreek(r) {
			greek++
		}
	}
	if total == 0 {
		return English
	}
	if float64(greek)/float64(total) > greekThreshold {
		return Greek
	}
	return English
}

func isGreek(r rune) bool {
	return (r >= 0x0370 && r <= 0x03FF) || (r >= 0x1F00 && r <= 0x1FFF)
}
