package ai

import (
	"math"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
)

// Normalize turns a model extraction into a Recipe with the same
// guarantees the heuristic parser gives: known unit codes or nil, positive
// quantities or nil, a language from the closed set.
func Normalize(reg *units.Registry, ex *Extraction, text string, hint language.Hint) *recipe.Recipe {
	lang, ok := language.ParseCode(ex.OriginalLanguage)
	if !ok {
		lang = language.Resolve(hint, text)
	}

	r := recipe.New(text, lang)
	if title := strings.TrimSpace(ex.Title); title != "" {
		r.Title = title
	}
	if ex.Servings.Valid && ex.Servings.Value >= 1 {
		r.Servings = int(math.Round(ex.Servings.Value))
	}
	if tl, ok := language.ParseCode(ex.TranslatedLanguage); ok {
		r.TranslatedLanguage = recipe.Some(tl)
	}
	if tt := strings.TrimSpace(ex.TranslatedTitle); tt != "" {
		r.TranslatedTitle = recipe.Some(tt)
	}

	for _, in := range ex.Ingredients {
		if ing, ok := normalizeIngredient(reg, in); ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}

	var translated []recipe.Optional[string]
	hasTranslation := false
	for i, step := range ex.Instructions {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		r.Instructions = append(r.Instructions, step)

		t := recipe.Null[string]()
		if i < len(ex.TranslatedInstructions) && ex.TranslatedInstructions[i] != nil {
			if s := strings.TrimSpace(*ex.TranslatedInstructions[i]); s != "" {
				t = recipe.Some(s)
				hasTranslation = true
			}
		}
		translated = append(translated, t)
	}
	if hasTranslation {
		r.TranslatedInstructions = translated
	}
	return r
}

func normalizeIngredient(reg *units.Registry, in ExtractedIngredient) (recipe.Ingredient, bool) {
	item := strings.TrimSpace(in.Item)
	var ing recipe.Ingredient

	if raw := strings.TrimSpace(in.Unit); raw != "" {
		if code, ok := reg.Normalize(raw); ok {
			ing.Unit = &code
		} else {
			// unknown unit text trails the item
			item = strings.TrimSpace(item + " " + raw)
		}
	}
	if item == "" {
		return ing, false
	}
	ing.Item = item

	if in.Quantity.Valid && in.Quantity.Value > 0 {
		q := in.Quantity.Value
		ing.Quantity = &q
	}
	if t := strings.TrimSpace(in.TranslatedItem); t != "" {
		ing.TranslatedItem = recipe.Some(t)
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		ing.Notes = recipe.Some(n)
	}
	return ing, true
}
