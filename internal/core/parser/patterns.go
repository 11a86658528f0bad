package parser

import (
	"regexp"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/units"
)

const glyphs = "½¼¾⅓⅔⅛"

var glyphValues = map[rune]float64{
	'½': 1.0 / 2,
	'¼': 1.0 / 4,
	'¾': 3.0 / 4,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'⅛': 1.0 / 8,
}

// numberWords is keyed by language.Bare so accents and case do not matter.
var numberWords = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"ενα": 1, "μια": 1, "δυο": 2, "τρια": 3, "τεσσερα": 4, "πεντε": 5,
	"εξι": 6, "επτα": 7, "εφτα": 7, "οκτω": 8, "οχτω": 8, "εννεα": 9, "εννια": 9, "δεκα": 10,
}

var (
	servingsPattern = regexp.MustCompile(`(?i)(\d+)\s*(servings?|portions?|μερίδες|μερίδα|μεριδες|μεριδα|άτομα|ατομα)`)

	// "Serves 6", "Servings: 6", "Μερίδες: 6"
	servingsLabelPattern = regexp.MustCompile(`(?i)(?:serves|servings?\s*:|yields?\s*:|μερίδες\s*:|μεριδες\s*:)\s*(\d+)`)

	servingsOnlyPattern = regexp.MustCompile(`(?i)^[\s(\[]*(?:(?:serves|makes|yields?|for|για)\s*:?\s*)?\d+\s*(?:servings?|portions?|μερίδες|μερίδα|μεριδες|μεριδα|άτομα|ατομα)[\s)\].!]*$|^[\s(\[]*(?:serves|servings?\s*:|yields?\s*:|μερίδες\s*:|μεριδες\s*:)\s*\d+[\s)\].!]*$`)

	// Header patterns run against language.Bare, so they are written
	// lower-case, accent-free and with σ for every sigma.
	ingredientHeader  = regexp.MustCompile(`^[#*\s]*(?:ingredients?|υλικα|συστατικα)[\s:*]*$`)
	instructionHeader = regexp.MustCompile(`^[#*\s]*(?:instructions?|directions?|method|steps?|preparation|εκτελεση|οδηγιεσ|βηματα|παρασκευη)[\s:*]*$`)

	bulletPattern     = regexp.MustCompile(`^[-•*]\s*`)
	stepNumberPattern = regexp.MustCompile(`^\d+[.)]\s`)
	stepPrefixPattern = regexp.MustCompile(`^\d+[.)]\s*`)
	sentenceEnd       = regexp.MustCompile(`[.!]$`)
	quantityStart     = regexp.MustCompile(`^[\d` + glyphs + `]`)

	notesPattern = regexp.MustCompile(`\(([^)]+)\)`)

	// Tried in order; the first match consumes its prefix.
	quantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+\s*[` + glyphs + `]|[\d.,/` + glyphs + `]+)\s*`),
		regexp.MustCompile(`(?i)^(one|two|three|four|five|six|seven|eight|nine|ten)\s+`),
		regexp.MustCompile(`(?i)^(ένα|ενα|μία|μια|δύο|δυο|τρία|τρια|τέσσερα|τεσσερα|πέντε|πεντε|έξι|εξι|επτά|επτα|εφτά|εφτα|οκτώ|οκτω|οχτώ|οχτω|εννέα|εννεα|εννιά|εννια|δέκα|δεκα)\s+`),
	}

	slashFraction  = regexp.MustCompile(`^(?:(\d+)\s+)?(\d+)/(\d+)$`)
	leadingDecimal = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)`)

	vaguePattern   = regexp.MustCompile(`(?i)^((?:a|an|μια|μία|μιά)\s+(?:pinch|dash|handful|splash|drizzle|sprinkle|bit|little|few|πρέζα|πρεζα|χούφτα|χουφτα)|(?:pinch(?:es)?|dash(?:es)?|handful|splash|drizzle|πρέζα|πρεζα|χούφτα|χουφτα|λίγο|λιγο|λίγη|λιγη|λίγα|λιγα|λίγες|λιγες))(?:\s+of)?\s+`)
	toTastePattern = regexp.MustCompile(`(?i)[,\s]+(to taste|as needed|optional|κατά βούληση|κατα βουληση|προαιρετικά|προαιρετικα)\s*$`)
	connective     = regexp.MustCompile(`(?i)^(of|the|του|της|το)\s+`)
	spaces         = regexp.MustCompile(`\s+`)
)

// unitPattern builds the leading-unit alternation from the registry tokens,
// longest first so "cups" wins over "cup" and "fl oz" over "fl".
func unitPattern(reg *units.Registry) *regexp.Regexp {
	tokens := reg.IngredientTokens()
	alts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(tok), " ", `\s*`))
	}
	return regexp.MustCompile(`(?i)^(` + strings.Join(alts, "|") + `)\.?(?:\s+|$)`)
}

func isIngredientHeader(line string) bool {
	return ingredientHeader.MatchString(language.Bare(line))
}

func isInstructionHeader(line string) bool {
	return instructionHeader.MatchString(language.Bare(line))
}

func isHeader(line string) bool {
	return isIngredientHeader(line) || isInstructionHeader(line)
}

// looksLikeIngredient: a bullet, or a leading digit, fraction glyph or
// number word. A step number such as "1. " or "2) " does not count.
func looksLikeIngredient(line string) bool {
	if bulletPattern.MatchString(line) {
		return true
	}
	if stepNumberPattern.MatchString(line) {
		return false
	}
	if quantityStart.MatchString(line) {
		return true
	}
	return quantityPatterns[1].MatchString(line) || quantityPatterns[2].MatchString(line)
}

// looksLikeInstruction: a step number, or a sentence longer than 30
// characters ending in "." or "!".
func looksLikeInstruction(line string) bool {
	if stepNumberPattern.MatchString(line) {
		return true
	}
	return len([]rune(line)) > 30 && sentenceEnd.MatchString(line)
}

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
