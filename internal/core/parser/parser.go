// Package parser is the heuristic recipe-text parser. It needs no network
// and always returns a recipe, so it is the last resort behind the AI adapter.
package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
)

// Name identifies this parser in responses and metrics.
const Name = "heuristic"

const (
	maxTitleLines   = 3
	maxTitleLength  = 100
	maxFallbackItem = 50
)

type section int

const (
	sectionUnknown section = iota
	sectionIngredients
	sectionInstructions
)

// Parser holds the compiled unit alternation for one registry. It keeps no
// per-call state and is safe for concurrent use.
type Parser struct {
	registry *units.Registry
	unit     *regexp.Regexp
}

// New builds a parser over reg.
func New(reg *units.Registry) *Parser {
	return &Parser{registry: reg, unit: unitPattern(reg)}
}

var defaultParser = New(units.Default())

// Default returns the parser over the embedded unit registry.
func Default() *Parser {
	return defaultParser
}

// Parse implements recipe.Parser. The only error is a cancelled context.
func (p *Parser) Parse(ctx context.Context, text string, hint language.Hint) (*recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.ParseText(text, hint), nil
}

// ParseText parses free recipe text. Degenerate input yields an
// "Untitled Recipe" with empty sections.
func (p *Parser) ParseText(text string, hint language.Hint) *recipe.Recipe {
	normalized := language.NFC(text)
	lines := splitLines(normalized)

	r := recipe.New(text, language.Resolve(hint, normalized))
	r.Servings = findServings(lines)

	title := ""
	current := sectionUnknown
	for i, line := range lines {
		if isIngredientHeader(line) {
			current = sectionIngredients
			continue
		}
		if isInstructionHeader(line) {
			current = sectionInstructions
			continue
		}

		if title == "" && i < maxTitleLines && len([]rune(line)) < maxTitleLength {
			title = cleanTitle(line)
			continue
		}

		if servingsOnlyPattern.MatchString(line) {
			continue
		}

		// section state first, then line shape, ingredients before steps
		switch {
		case current == sectionIngredients || looksLikeIngredient(line):
			if ing := p.ParseIngredientLine(line); ing.Item != "" {
				r.Ingredients = append(r.Ingredients, ing)
			}
		case current == sectionInstructions || looksLikeInstruction(line):
			if step := cleanStep(line); step != "" {
				r.Instructions = append(r.Instructions, step)
			}
		}
	}

	if len(r.Ingredients) == 0 && len(lines) > 1 {
		r.Ingredients = p.recoverIngredients(lines[1:])
	}

	if title != "" {
		r.Title = title
	}
	return r
}

// recoverIngredients is the second pass for text without ingredient cues:
// every non-header line is tried and kept when it has a quantity or a
// short item.
func (p *Parser) recoverIngredients(lines []string) []recipe.Ingredient {
	out := []recipe.Ingredient{}
	for _, line := range lines {
		if isHeader(line) || servingsOnlyPattern.MatchString(line) {
			continue
		}
		ing := p.ParseIngredientLine(line)
		if ing.Item == "" {
			continue
		}
		if ing.Quantity != nil || len([]rune(ing.Item)) < maxFallbackItem {
			out = append(out, ing)
		}
	}
	return out
}

// Parse runs the default parser.
func Parse(text string, hint language.Hint) *recipe.Recipe {
	return defaultParser.ParseText(text, hint)
}

// ParseIngredientLine runs the default parser on a single line.
func ParseIngredientLine(line string) recipe.Ingredient {
	return defaultParser.ParseIngredientLine(line)
}

// ParseQuantity reads a quantity token such as "2", "1/2", "½", "1,5" or
// "two". It returns nil for anything unreadable or not positive.
func ParseQuantity(raw string) *float64 {
	return parseQuantity(raw)
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// findServings returns the first positive serving count found on any line.
func findServings(lines []string) int {
	for _, line := range lines {
		for _, pattern := range []*regexp.Regexp{servingsPattern, servingsLabelPattern} {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return recipe.DefaultServings
}

func cleanTitle(line string) string {
	if loc := servingsPattern.FindStringIndex(line); loc != nil {
		line = line[:loc[0]] + line[loc[1]:]
	}
	line = strings.NewReplacer("(", "", ")", "").Replace(line)
	line = strings.TrimLeft(line, "# ")
	return collapse(line)
}

func cleanStep(line string) string {
	step := stepPrefixPattern.ReplaceAllString(line, "")
	step = bulletPattern.ReplaceAllString(step, "")
	return strings.TrimSpace(step)
}
