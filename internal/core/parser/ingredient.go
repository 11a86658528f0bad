package parser

import (
	"strconv"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
)

// ParseIngredientLine splits one ingredient line into quantity, unit, item
// and notes. The item may come back empty for malformed lines.
func (p *Parser) ParseIngredientLine(line string) recipe.Ingredient {
	remaining := collapse(language.NFC(line))
	var ing recipe.Ingredient
	var notes []string

	if m := notesPattern.FindStringSubmatchIndex(remaining); m != nil {
		if n := strings.TrimSpace(remaining[m[2]:m[3]]); n != "" {
			notes = append(notes, n)
		}
		remaining = collapse(remaining[:m[0]] + " " + remaining[m[1]:])
	}

	remaining = bulletPattern.ReplaceAllString(remaining, "")

	if m := vaguePattern.FindStringSubmatch(remaining); m != nil {
		notes = append(notes, strings.TrimSpace(m[1]))
		remaining = strings.TrimSpace(remaining[len(m[0]):])
	} else {
		for _, pattern := range quantityPatterns {
			m := pattern.FindStringSubmatch(remaining)
			if m == nil {
				continue
			}
			ing.Quantity = parseQuantity(m[1])
			remaining = strings.TrimSpace(remaining[len(m[0]):])
			break
		}
	}

	if m := p.unit.FindStringSubmatch(remaining); m != nil {
		if code, ok := p.registry.Normalize(m[1]); ok {
			ing.Unit = &code
			remaining = strings.TrimSpace(remaining[len(m[0]):])
		}
	}

	if m := toTastePattern.FindStringSubmatchIndex(remaining); m != nil {
		notes = append(notes, remaining[m[2]:m[3]])
		remaining = strings.TrimSpace(remaining[:m[0]])
	}

	item := connective.ReplaceAllString(remaining, "")
	item = bulletPattern.ReplaceAllString(strings.TrimSpace(item), "")
	ing.Item = strings.TrimSpace(item)

	if len(notes) > 0 {
		ing.Notes = recipe.Some(strings.Join(notes, ", "))
	}
	return ing
}

// parseQuantity resolves a matched quantity token. Unusable text and
// non-positive values yield nil, never zero.
func parseQuantity(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var value float64
	switch {
	case strings.ContainsAny(s, glyphs):
		v, ok := glyphQuantity(s)
		if !ok {
			return nil
		}
		value = v
	case strings.Contains(s, "/"):
		m := slashFraction.FindStringSubmatch(s)
		if m == nil {
			return nil
		}
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den == 0 {
			return nil
		}
		if m[1] != "" {
			whole, _ := strconv.Atoi(m[1])
			value = float64(whole)
		}
		value += float64(num) / float64(den)
	default:
		if v, ok := numberWords[language.Bare(s)]; ok {
			value = v
			break
		}
		m := leadingDecimal.FindString(strings.Replace(s, ",", ".", 1))
		if m == "" {
			return nil
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		value = v
	}

	if value <= 0 {
		return nil
	}
	return &value
}

// glyphQuantity handles "½" and "2½" / "2 ½": the text before the first
// glyph is a whole number added to the glyph value.
func glyphQuantity(s string) (float64, bool) {
	for i, r := range s {
		frac, ok := glyphValues[r]
		if !ok {
			continue
		}
		whole := strings.TrimSpace(s[:i])
		if whole == "" {
			return frac, true
		}
		w, err := strconv.ParseFloat(strings.Replace(whole, ",", ".", 1), 64)
		if err != nil {
			return frac, true
		}
		return w + frac, true
	}
	return 0, false
}
