// Package ai is the model-backed recipe parser. Every failure is recovered
// by falling back to the heuristic parser and reported as an Advisory.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/parser"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
)

// Name identifies results produced by a model.
const Name = "ai"

// Extractor is a model client able to structure and translate recipe text.
type Extractor interface {
	// Configured reports whether a credential is present. It is checked
	// before any call is attempted.
	Configured() bool
	Extract(ctx context.Context, text string, hint language.Hint) (*Extraction, error)
	Translate(ctx context.Context, text string, from, to language.Code) (string, error)
}

// Extraction is the recipe document as a model returns it, before
// normalization. Fields are loose on purpose: models send numbers as
// strings and drop keys.
type Extraction struct {
	Title                  string                `json:"title"`
	TranslatedTitle        string                `json:"translatedTitle"`
	Servings               Number                `json:"servings"`
	OriginalLanguage       string                `json:"originalLanguage"`
	TranslatedLanguage     string                `json:"translatedLanguage"`
	Ingredients            []ExtractedIngredient `json:"ingredients"`
	Instructions           []string              `json:"instructions"`
	TranslatedInstructions []*string             `json:"translatedInstructions"`
}

// ExtractedIngredient is one ingredient of an Extraction.
type ExtractedIngredient struct {
	Quantity       Number `json:"quantity"`
	Unit           string `json:"unit"`
	Item           string `json:"item"`
	TranslatedItem string `json:"translatedItem"`
	Notes          string `json:"notes"`
}

// Number accepts a JSON number, a quantity string such as "1/2", or null.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if q := parser.ParseQuantity(s); q != nil {
			*n = Number{Value: *q, Valid: true}
		}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("quantity %s: %w", data, err)
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// Advisory is a non-fatal warning attached to a parse result.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of SmartParse.
type Result struct {
	Recipe   *recipe.Recipe `json:"recipe"`
	Parser   string         `json:"parser"`
	Cached   bool           `json:"cached"`
	Warnings []Advisory     `json:"warnings"`
}
