package recipe

import (
	"github.com/panpapadopoulos/cooking/internal/core/units"
)

// IngredientView is one ingredient rendered for a serving count and system.
type IngredientView struct {
	Quantity         *units.Amount    `json:"quantity"`
	Unit             *units.Code      `json:"unit"`
	Item             string           `json:"item"`
	TranslatedItem   Optional[string] `json:"translatedItem,omitzero"`
	Notes            Optional[string] `json:"notes,omitzero"`
	Converted        bool             `json:"converted"`
	OriginalQuantity *units.Amount    `json:"originalQuantity,omitempty"`
	OriginalUnit     *units.Code      `json:"originalUnit,omitempty"`
	Display          string           `json:"display"`
}

// RecipeView is a recipe resized and converted for display. Nothing in it
// is persisted.
type RecipeView struct {
	Recipe      *Recipe          `json:"recipe"`
	Servings    int              `json:"servings"`
	System      units.System     `json:"system"`
	Ingredients []IngredientView `json:"ingredients"`
}

// View scales every quantity by desired/recipe servings in its original
// unit, converts the unrounded result to system and rounds only for
// display. desired <= 0 keeps the recipe's own serving count.
func (s *Service) View(r *Recipe, desired int, system units.System) RecipeView {
	return BuildView(s.registry, r, desired, system)
}

// BuildView is View without a Service.
func BuildView(reg *units.Registry, r *Recipe, desired int, system units.System) RecipeView {
	if desired <= 0 {
		desired = r.Servings
	}
	view := RecipeView{
		Recipe:      r,
		Servings:    desired,
		System:      system,
		Ingredients: make([]IngredientView, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		view.Ingredients = append(view.Ingredients, viewIngredient(reg, ing, r.Servings, desired, system))
	}
	return view
}

func viewIngredient(reg *units.Registry, ing Ingredient, base, desired int, system units.System) IngredientView {
	iv := IngredientView{
		Unit:           ing.Unit,
		Item:           ing.Item,
		TranslatedItem: ing.TranslatedItem,
		Notes:          ing.Notes,
	}
	if ing.Quantity == nil {
		iv.Display = formatAmount(nil, ing.Unit)
		return iv
	}

	scaled := units.ScaleValue(*ing.Quantity, base, desired)
	unit := ""
	if ing.Unit != nil {
		unit = string(*ing.Unit)
	}
	conv := reg.ConvertIngredient(&scaled, unit, system)

	original := units.SmartRound(scaled)
	if !conv.Converted {
		iv.Quantity = &original
		iv.Unit = conv.Unit
		iv.Display = formatAmount(&original, conv.Unit)
		return iv
	}

	iv.Quantity = conv.Quantity
	iv.Unit = conv.Unit
	iv.Converted = true
	iv.OriginalQuantity = &original
	iv.OriginalUnit = conv.OriginalUnit
	iv.Display = formatAmount(conv.Quantity, conv.Unit) + " (was " + formatAmount(&original, conv.OriginalUnit) + ")"
	return iv
}

func formatAmount(q *units.Amount, unit *units.Code) string {
	switch {
	case q == nil && unit == nil:
		return ""
	case q == nil:
		return string(*unit)
	case unit == nil:
		return q.String()
	}
	return q.String() + " " + string(*unit)
}
