// Package language holds the recipe language codes, the script based
// language detector and the caseless text keys used for table lookups.
package language

import "strings"

// Code is a two-letter recipe language code from the closed set {el, en}.
type Code string

const (
	Greek   Code = "el"
	English Code = "en"
)

// Hint is the caller supplied source language: "auto" or a Code.
type Hint string

// Auto asks the parser to run the detector on the full text.
const Auto Hint = "auto"

var names = map[string]string{
	"el": "Greek",
	"en": "English",
	"gr": "Greek",
}

// Valid reports whether c belongs to the closed set.
func (c Code) Valid() bool {
	return c == Greek || c == English
}

// Other returns the translation target for c.
func (c Code) Other() Code {
	if c == Greek {
		return English
	}
	return Greek
}

// Name returns the display name of a code, or the code itself when unknown.
func Name(code string) string {
	if n, ok := names[strings.ToLower(code)]; ok {
		return n
	}
	return code
}

// ParseCode maps "el", "en" and the legacy "gr" alias to a Code.
func ParseCode(s string) (Code, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "el", "gr":
		return Greek, true
	case "en":
		return English, true
	}
	return "", false
}

// Resolve turns a hint into a concrete language. Auto, empty and unknown
// hints fall back to detection over text.
func Resolve(hint Hint, text string) Code {
	if code, ok := ParseCode(string(hint)); ok {
		return code
	}
	return Detect(text)
}

// ParseHint accepts "auto", an empty string, or anything ParseCode accepts.
func ParseHint(s string) (Hint, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(Auto) {
		return Auto, true
	}
	if code, ok := ParseCode(s); ok {
		return Hint(code), true
	}
	return "", false
}
