package parser

import (
	"context"
	"testing"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(c string) *units.Code {
	code := units.Code(c)
	return &code
}

func qty(v float64) *float64 { return &v }

func TestParse_WithHeaders(t *testing.T) {
	text := "Greek Salad\n4 servings\nIngredients:\n2 cups tomatoes\n1 onion\nInstructions:\n1. Chop vegetables.\n2. Mix and serve."

	r := Parse(text, language.Auto)

	assert.Equal(t, "Greek Salad", r.Title)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, language.English, r.OriginalLanguage)
	assert.Equal(t, "", r.Source)
	assert.Equal(t, text, r.OriginalText)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, recipe.Ingredient{Quantity: qty(2), Unit: unit("cup"), Item: "tomatoes"}, r.Ingredients[0])
	assert.Equal(t, recipe.Ingredient{Quantity: qty(1), Item: "onion"}, r.Ingredients[1])
	assert.Equal(t, []string{"Chop vegetables.", "Mix and serve."}, r.Instructions)
}

func TestParse_BulletsWithoutHeaders(t *testing.T) {
	text := "Pancakes\n- 2 cups flour\n- 1 egg\n- milk\nWhisk everything together and cook on a hot pan."

	r := Parse(text, language.Auto)

	assert.Equal(t, "Pancakes", r.Title)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, "flour", r.Ingredients[0].Item)
	assert.Equal(t, unit("cup"), r.Ingredients[0].Unit)
	assert.Equal(t, qty(2), r.Ingredients[0].Quantity)
	assert.Equal(t, "egg", r.Ingredients[1].Item)
	assert.Equal(t, "milk", r.Ingredients[2].Item)
	assert.Nil(t, r.Ingredients[2].Quantity)
	assert.Equal(t, []string{"Whisk everything together and cook on a hot pan."}, r.Instructions)
}

func TestParse_VagueQuantity(t *testing.T) {
	ing := ParseIngredientLine("a pinch of salt")
	assert.Nil(t, ing.Quantity)
	assert.Nil(t, ing.Unit)
	assert.Equal(t, "salt", ing.Item)
	assert.Equal(t, recipe.Some("a pinch"), ing.Notes)

	r := Parse("Soup\nIngredients\na pinch of salt\n1 l water", language.Hint(language.English))
	require.Len(t, r.Ingredients, 2)
	assert.Nil(t, r.Ingredients[0].Quantity)
	assert.Equal(t, "salt", r.Ingredients[0].Item)
	assert.Equal(t, unit("l"), r.Ingredients[1].Unit)
}

func TestParse_Greek(t *testing.T) {
	text := "Χωριάτικη Σαλάτα\nΓια 6 μερίδες\nΥλικά:\n2 φλιτζάνια ντομάτες\n1 κ.σ. ελαιόλαδο\nμια πρέζα αλάτι\nΕκτέλεση:\n1. Κόβουμε τα λαχανικά.\n2. Ανακατεύουμε."

	r := Parse(text, language.Auto)

	assert.Equal(t, "Χωριάτικη Σαλάτα", r.Title)
	assert.Equal(t, 6, r.Servings)
	assert.Equal(t, language.Greek, r.OriginalLanguage)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, recipe.Ingredient{Quantity: qty(2), Unit: unit("cup"), Item: "ντομάτες"}, r.Ingredients[0])
	assert.Equal(t, recipe.Ingredient{Quantity: qty(1), Unit: unit("tbsp"), Item: "ελαιόλαδο"}, r.Ingredients[1])
	assert.Nil(t, r.Ingredients[2].Quantity)
	assert.Equal(t, "αλάτι", r.Ingredients[2].Item)
	assert.Equal(t, []string{"Κόβουμε τα λαχανικά.", "Ανακατεύουμε."}, r.Instructions)
}

func TestParse_UppercaseGreekHeaders(t *testing.T) {
	r := Parse("Φακές\nΥΛΙΚΑ\n500 γρ. φακές\nΟΔΗΓΙΕΣ\nΒράζουμε", language.Hint(language.Greek))
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, unit("g"), r.Ingredients[0].Unit)
	assert.Equal(t, qty(500), r.Ingredients[0].Quantity)
	assert.Equal(t, []string{"Βράζουμε"}, r.Instructions)
}

func TestParse_HintIsUsedVerbatim(t *testing.T) {
	r := Parse("Σαλάτα\n1 ντομάτα", language.Hint("en"))
	assert.Equal(t, language.English, r.OriginalLanguage)

	r = Parse("Salad\n1 tomato", language.Hint("gr"))
	assert.Equal(t, language.Greek, r.OriginalLanguage)
}

func TestParse_Degenerate(t *testing.T) {
	for _, text := range []string{"", "   \n\n \t", "\r\n"} {
		r := Parse(text, language.Auto)
		require.NotNil(t, r)
		assert.Equal(t, recipe.UntitledRecipe, r.Title)
		assert.Equal(t, recipe.DefaultServings, r.Servings)
		assert.Empty(t, r.Ingredients)
		assert.NotNil(t, r.Ingredients)
		assert.Empty(t, r.Instructions)
		assert.Equal(t, language.English, r.OriginalLanguage)
	}
}

func TestParse_FallbackRecoversIngredients(t *testing.T) {
	text := "Simple Omelette\neggs\nbutter\nsalt and pepper\nBeat the eggs and cook them gently in the butter until just set."

	r := Parse(text, language.Auto)

	items := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		items = append(items, ing.Item)
	}
	assert.Equal(t, []string{"eggs", "butter", "salt and pepper"}, items)
	assert.Equal(t, []string{"Beat the eggs and cook them gently in the butter until just set."}, r.Instructions)
}

func TestParse_ServingsAndTitle(t *testing.T) {
	r := Parse("Lentil Soup (4 servings)\n1 cup lentils", language.Auto)
	assert.Equal(t, "Lentil Soup", r.Title)
	assert.Equal(t, 4, r.Servings)

	r = Parse("Stew\nServes 8\n2 lb beef", language.Auto)
	assert.Equal(t, 8, r.Servings)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, unit("lb"), r.Ingredients[0].Unit)

	r = Parse("Bread\n0 servings\n500 g flour", language.Auto)
	assert.Equal(t, recipe.DefaultServings, r.Servings)
}

func TestParse_NumberedStepsWithoutHeaders(t *testing.T) {
	r := Parse("Toast\n2 slices bread\n1. Toast the bread.\n2. Butter it.", language.Auto)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, "slices bread", r.Ingredients[0].Item)
	assert.Equal(t, []string{"Toast the bread.", "Butter it."}, r.Instructions)
}

func TestParse_IngredientShapeInsideInstructions(t *testing.T) {
	r := Parse("Soup\nIngredients:\n2 carrots\nInstructions:\n- stir well\n3 eggs beaten in a bowl\n1. Serve hot.", language.Auto)

	items := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		items = append(items, ing.Item)
	}
	assert.Equal(t, []string{"carrots", "stir well", "eggs beaten in a bowl"}, items)
	assert.Equal(t, []string{"Serve hot."}, r.Instructions)
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want recipe.Ingredient
	}{
		{"1 1/2 cups sugar", recipe.Ingredient{Quantity: qty(1.5), Unit: unit("cup"), Item: "sugar"}},
		{"½ tsp salt", recipe.Ingredient{Quantity: qty(0.5), Unit: unit("tsp"), Item: "salt"}},
		{"2½ cups milk", recipe.Ingredient{Quantity: qty(2.5), Unit: unit("cup"), Item: "milk"}},
		{"1,5 kg potatoes", recipe.Ingredient{Quantity: qty(1.5), Unit: unit("kg"), Item: "potatoes"}},
		{"200g flour", recipe.Ingredient{Quantity: qty(200), Unit: unit("g"), Item: "flour"}},
		{"3 Tablespoons of olive oil", recipe.Ingredient{Quantity: qty(3), Unit: unit("tbsp"), Item: "olive oil"}},
		{"two cloves garlic (minced)", recipe.Ingredient{Quantity: qty(2), Item: "cloves garlic", Notes: recipe.Some("minced")}},
		{"τρία αυγά", recipe.Ingredient{Quantity: qty(3), Item: "αυγά"}},
		{"1 large onion", recipe.Ingredient{Quantity: qty(1), Item: "large onion"}},
		{"8 fl oz cream", recipe.Ingredient{Quantity: qty(8), Unit: unit("fl oz"), Item: "cream"}},
		{"1 tbsp. honey", recipe.Ingredient{Quantity: qty(1), Unit: unit("tbsp"), Item: "honey"}},
		{"- 1 lb. ground beef", recipe.Ingredient{Quantity: qty(1), Unit: unit("lb"), Item: "ground beef"}},
		{"salt, to taste", recipe.Ingredient{Item: "salt", Notes: recipe.Some("to taste")}},
		{"1/0 cup water", recipe.Ingredient{Unit: unit("cup"), Item: "water"}},
		{"0 eggs", recipe.Ingredient{Item: "eggs"}},
		{"(optional)", recipe.Ingredient{Notes: recipe.Some("optional")}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredientLine(tt.line))
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := map[string]*float64{
		"2":     qty(2),
		"2.5":   qty(2.5),
		"2,5":   qty(2.5),
		"3/4":   qty(0.75),
		"1 1/2": qty(1.5),
		"⅓":     qty(1.0 / 3),
		"1 ¼":   qty(1.25),
		"Ten":   qty(10),
		"δέκα":  qty(10),
		"ΈΝΑ":   qty(1),
		".":     nil,
		"/":     nil,
		"0":     nil,
		"5/0":   nil,
	}
	for in, want := range tests {
		got := parseQuantity(in)
		if want == nil {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.InDelta(t, *want, *got, 1e-9, in)
	}
}

func TestParser_ImplementsRecipeParser(t *testing.T) {
	var p recipe.Parser = Default()
	r, err := p.Parse(context.Background(), "Tea\n1 cup water", language.Auto)
	require.NoError(t, err)
	assert.Equal(t, "Tea", r.Title)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Parse(ctx, "Tea", language.Auto)
	assert.ErrorIs(t, err, context.Canceled)
}
