// Package recipe holds the recipe model shared by the parsers, the stores
// and the HTTP surface, plus the service that persists recipes.
package recipe

import (
	"context"
	"strings"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/units"
)

// DefaultServings is used when the text names no serving count.
const DefaultServings = 4

// UntitledRecipe is the title of a recipe whose text has no usable title line.
const UntitledRecipe = "Untitled Recipe"

// Recipe is the stored and exchanged recipe document. Field names are part
// of the export format.
type Recipe struct {
	ID                     string                  `json:"id,omitempty"`
	Title                  string                  `json:"title" validate:"required,notblank"`
	TranslatedTitle        Optional[string]        `json:"translatedTitle,omitzero"`
	Servings               int                     `json:"servings" validate:"gt=0"`
	OriginalLanguage       language.Code           `json:"originalLanguage" validate:"oneof=el en"`
	TranslatedLanguage     Optional[language.Code] `json:"translatedLanguage,omitzero"`
	Source                 string                  `json:"source"`
	Ingredients            []Ingredient            `json:"ingredients" validate:"required,min=1,dive"`
	Instructions           []string                `json:"instructions"`
	TranslatedInstructions []Optional[string]      `json:"translatedInstructions,omitempty"`
	OriginalText           string                  `json:"originalText"`
	CreatedAt              time.Time               `json:"createdAt,omitzero"`
	UpdatedAt              time.Time               `json:"updatedAt,omitzero"`
}

// Ingredient is one line of a recipe. A nil Quantity means the amount is
// vague ("a pinch") and is never zero; a nil Unit means the item is counted.
type Ingredient struct {
	Quantity       *float64         `json:"quantity"`
	Unit           *units.Code      `json:"unit"`
	Item           string           `json:"item" validate:"required,notblank"`
	TranslatedItem Optional[string] `json:"translatedItem,omitzero"`
	Notes          Optional[string] `json:"notes,omitzero"`
}

// New returns an empty recipe with the parser defaults.
func New(text string, lang language.Code) *Recipe {
	return &Recipe{
		Title:            UntitledRecipe,
		Servings:         DefaultServings,
		OriginalLanguage: lang,
		Ingredients:      []Ingredient{},
		Instructions:     []string{},
		OriginalText:     text,
	}
}

// Clone returns a deep copy so callers can edit without touching a shared value.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Ingredients = make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if ing.Quantity != nil {
			q := *ing.Quantity
			ing.Quantity = &q
		}
		if ing.Unit != nil {
			u := *ing.Unit
			ing.Unit = &u
		}
		out.Ingredients[i] = ing
	}
	out.Instructions = append([]string(nil), r.Instructions...)
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	if r.TranslatedInstructions != nil {
		out.TranslatedInstructions = append([]Optional[string](nil), r.TranslatedInstructions...)
	}
	return &out
}

// FormatIngredient renders an ingredient back to its text form,
// "q unit item (notes)".
func FormatIngredient(ing Ingredient) string {
	var parts []string
	if ing.Quantity != nil {
		parts = append(parts, units.Number(*ing.Quantity).String())
	}
	if ing.Unit != nil {
		parts = append(parts, string(*ing.Unit))
	}
	parts = append(parts, ing.Item)
	if notes, ok := ing.Notes.Get(); ok && notes != "" {
		parts = append(parts, "("+notes+")")
	}
	return strings.Join(parts, " ")
}

// Parser turns free recipe text into a Recipe. Implementations must return
// a usable recipe for any input; an error is reserved for cancellation.
type Parser interface {
	Parse(ctx context.Context, text string, hint language.Hint) (*Recipe, error)
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(ctx context.Context, text string, hint language.Hint) (*Recipe, error)

func (f ParserFunc) Parse(ctx context.Context, text string, hint language.Hint) (*Recipe, error) {
	return f(ctx, text, hint)
}
