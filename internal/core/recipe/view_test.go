package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_ScalesThenConverts(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := sampleRecipe("Salad")

	view := svc.View(r, 8, units.Metric)

	assert.Equal(t, 8, view.Servings)
	require.Len(t, view.Ingredients, 3)

	tomatoes := view.Ingredients[0]
	assert.True(t, tomatoes.Converted)
	assert.Equal(t, units.Code("ml"), *tomatoes.Unit)
	// 4 cups = 946.352 ml, computed from the raw value
	assert.Equal(t, "946 ⅓", tomatoes.Quantity.String())
	assert.Equal(t, "4", tomatoes.OriginalQuantity.String())
	assert.Equal(t, "946 ⅓ ml (was 4 cup)", tomatoes.Display)

	onion := view.Ingredients[1]
	assert.False(t, onion.Converted)
	assert.Equal(t, "2", onion.Display)
	assert.Equal(t, Some("finely chopped"), onion.Notes)

	salt := view.Ingredients[2]
	assert.Nil(t, salt.Quantity)
	assert.Equal(t, "", salt.Display)

	// the stored recipe is untouched
	assert.Equal(t, 2.0, *r.Ingredients[0].Quantity)
}

func TestView_FractionDisplay(t *testing.T) {
	r := &Recipe{
		Title:    "Cake",
		Servings: 4,
		Ingredients: []Ingredient{
			{Quantity: f(1), Unit: u("cup"), Item: "sugar"},
			{Quantity: f(3), Item: "eggs"},
			{Quantity: f(3), Unit: u("tbsp"), Item: "butter"},
		},
	}
	view := BuildView(units.Default(), r, 2, units.Cooking)
	assert.Equal(t, "½ cup", view.Ingredients[0].Display)
	assert.Equal(t, "1 ½", view.Ingredients[1].Display)
	assert.False(t, view.Ingredients[1].Converted)
	// 1.5 tbsp is 0.09375 cup, below the fraction threshold
	assert.Equal(t, "0.09 cup (was 1 ½ tbsp)", view.Ingredients[2].Display)

	view = BuildView(units.Default(), r, 0, units.Cooking)
	assert.Equal(t, 4, view.Servings)
	assert.Equal(t, "1 cup", view.Ingredients[0].Display)
}

func TestSyncer_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	local, remote := NewMemoryStore(), NewMemoryStore()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	put := func(s Store, id, title string, updated time.Time) {
		r := sampleRecipe(title)
		r.ID, r.CreatedAt, r.UpdatedAt = id, t0, updated
		require.NoError(t, s.Put(ctx, r))
	}
	put(local, "only-local", "Local", t0)
	put(remote, "only-remote", "Remote", t0)
	put(local, "newer-local", "Local v2", t0.Add(time.Hour))
	put(remote, "newer-local", "Remote v1", t0)
	put(local, "newer-remote", "Local v1", t0)
	put(remote, "newer-remote", "Remote v2", t0.Add(time.Hour))
	put(local, "same", "Same", t0)
	put(remote, "same", "Same", t0)

	report, err := NewSyncer(local, remote, 2).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Pushed: 2, Pulled: 2, Unchanged: 1}, report)

	for _, s := range []Store{local, remote} {
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		got, err := s.Get(ctx, "newer-local")
		require.NoError(t, err)
		assert.Equal(t, "Local v2", got.Title)

		got, err = s.Get(ctx, "newer-remote")
		require.NoError(t, err)
		assert.Equal(t, "Remote v2", got.Title)
	}

	report, err = NewSyncer(local, remote, 1).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Unchanged: 5}, report)
}
