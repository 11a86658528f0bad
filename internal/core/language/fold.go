package language

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFC recomposes decomposed accents so Greek text matches the tables.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Key returns a caseless lookup key: whitespace collapsed, NFC, Unicode case
// folded. Folding maps both Σ and final ς to σ, so "Κ.Σ." and "κ.σ." agree.
func Key(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(norm.NFC.String(s))
}

// Bare is Key with combining marks removed ("Υλικά", "ΥΛΙΚΑ" -> "υλικα").
func Bare(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return Key(out)
}
