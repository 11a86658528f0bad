package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecipe(id, title string, created time.Time) *recipe.Recipe {
	q := 250.0
	g := units.Code("g")
	return &recipe.Recipe{
		ID:               id,
		Title:            title,
		Servings:         4,
		OriginalLanguage: language.Greek,
		Ingredients: []recipe.Ingredient{
			{Quantity: &q, Unit: &g, Item: "φέτα", TranslatedItem: recipe.Some("feta")},
			{Item: "ρίγανη", Notes: recipe.Some("κατά βούληση")},
		},
		Instructions:           []string{"Κόβουμε.", "Σερβίρουμε."},
		TranslatedInstructions: []recipe.Optional[string]{recipe.Some("Cut."), recipe.Null[string]()},
		TranslatedLanguage:     recipe.Some(language.English),
		OriginalText:           "Χωριάτικη\n...",
		CreatedAt:              created,
		UpdatedAt:              created,
	}
}

func TestOpen_WAL(t *testing.T) {
	s := newTestStore(t)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	in := testRecipe("r1", "Χωριάτικη", t0)
	require.NoError(t, s.Put(ctx, in))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	in.Title = "Horiatiki"
	in.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, s.Put(ctx, in))

	got, err = s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Horiatiki", got.Title)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Hour)))

	require.NoError(t, s.Delete(ctx, "r1"))
	_, err = s.Get(ctx, "r1")
	assert.ErrorIs(t, err, recipe.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "r1"), recipe.ErrNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, testRecipe("b", "Old", t0)))
	require.NoError(t, s.Put(ctx, testRecipe("c", "New", t0.Add(time.Minute))))
	require.NoError(t, s.Put(ctx, testRecipe("a", "Old too", t0)))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, s.Clear(ctx))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListOrdersWithinSecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 30, 5, 0, time.UTC)

	require.NoError(t, s.Put(ctx, testRecipe("whole", "Whole", t0)))
	require.NoError(t, s.Put(ctx, testRecipe("tenth", "Tenth", t0.Add(100*time.Millisecond))))
	require.NoError(t, s.Put(ctx, testRecipe("later", "Later", t0.Add(120*time.Millisecond))))
	require.NoError(t, s.Put(ctx, testRecipe("half", "Half", t0.Add(500*time.Millisecond))))

	list, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"half", "later", "tenth", "whole"}, ids)
	assert.Equal(t, "2026-05-01T09:30:05.000000000Z", formatTime(t0))
}

func TestStore_Replace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, testRecipe("gone", "Gone", t0)))
	require.NoError(t, s.Replace(ctx, []*recipe.Recipe{
		testRecipe("x", "X", t0),
		testRecipe("y", "Y", t0),
	}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	_, err = s.Get(ctx, "gone")
	assert.ErrorIs(t, err, recipe.ErrNotFound)
}

func TestStore_WithService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := recipe.NewService(s)

	saved, err := svc.Save(ctx, testRecipe("", "Σαγανάκι", time.Time{}))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	bundle, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, bundle.Recipes, 1)
	assert.Equal(t, "Σαγανάκι", bundle.Recipes[0].Title)
}
