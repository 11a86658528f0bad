package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saladText = "Greek Salad\n4 servings\nIngredients:\n2 cups tomatoes\n1 onion\nInstructions:\n1. Chop vegetables.\n2. Mix and serve."

type harness struct {
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{dbPath: filepath.Join(t.TempDir(), "recipes.db")}
}

func (h *harness) config() (*config.Config, error) {
	return &config.Config{
		Gemini:  config.GeminiConfig{Model: "gemini-test", Timeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverSQLite, Path: h.dbPath},
		Sync:    config.SyncConfig{Concurrency: 2},
		Units:   config.UnitsConfig{DefaultSystem: string(units.Metric)},
	}, nil
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New(Options{
		Version:    "test",
		In:         strings.NewReader(stdin),
		Out:        &out,
		LoadConfig: h.config,
	})
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func TestConvert(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "convert", "-q", "2", "-u", "cups")
	require.NoError(t, err)
	var conv units.Conversion
	require.NoError(t, json.Unmarshal([]byte(out), &conv), out)
	assert.True(t, conv.Converted)
	require.NotNil(t, conv.Unit)
	assert.Equal(t, units.Code("ml"), *conv.Unit)

	out, err = h.run(t, "", "convert", "-q", "500", "-u", "γρ", "--system", "all", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "metric:")
	assert.Contains(t, out, "cooking:")

	_, err = h.run(t, "", "convert", "-q", "2", "-u", "cups", "--system", "imperial")
	assert.ErrorContains(t, err, "invalid system")

	_, err = h.run(t, "", "convert", "-u", "cups")
	assert.Error(t, err, "quantity is required")
}

func TestScale(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "scale", "-q", "1.5", "--from", "4", "--to", "6")
	require.NoError(t, err)
	assert.Equal(t, "2 ¼\n", out)

	_, err = h.run(t, "", "scale", "-q", "1.5", "--from", "0", "--to", "6")
	assert.ErrorContains(t, err, "servings must be positive")
}

func TestParse_Heuristic(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, saladText, "parse", "--heuristic")
	require.NoError(t, err)

	var res ai.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "heuristic", res.Parser)
	assert.Equal(t, "Greek Salad", res.Recipe.Title)
	assert.NoFileExists(t, h.dbPath, "no store needed")

	_, err = h.run(t, "  \n", "parse", "--heuristic")
	assert.ErrorContains(t, err, "no recipe text")

	_, err = h.run(t, saladText, "parse", "--language", "fr")
	assert.ErrorContains(t, err, "invalid language")
}

func TestParse_WithoutCredentialFallsBack(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, saladText, "parse")
	require.NoError(t, err)

	var res ai.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "heuristic", res.Parser)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "no_credential", res.Warnings[0].Code)
}

func TestCollectionCommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, saladText, "parse", "--heuristic", "--save")
	require.NoError(t, err)
	var res ai.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	id := res.Recipe.ID
	require.NotEmpty(t, id)

	out, err = h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Greek Salad")

	out, err = h.run(t, "", "view", "--servings", "8", "--system", "cooking", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Servings: 8 (cooking units)")
	assert.Contains(t, out, "4 cup tomatoes")
	assert.Contains(t, out, "2. Mix and serve.")

	_, err = h.run(t, "", "view", "missing")
	assert.ErrorIs(t, err, recipe.ErrNotFound)

	bundlePath := filepath.Join(t.TempDir(), "backup.json")
	_, err = h.run(t, "", "export", "-o", bundlePath)
	require.NoError(t, err)
	assert.FileExists(t, bundlePath)

	out, err = h.run(t, "", "import", "--merge", bundlePath)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 recipes\n", out)

	out, err = h.run(t, "", "list", "--format", "json")
	require.NoError(t, err)
	var listed []recipe.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &listed), out)
	assert.Len(t, listed, 2)

	_, err = h.run(t, `{"recipes": {}}`, "import")
	assert.ErrorIs(t, err, recipe.ErrInvalidImport)

	_, err = h.run(t, "", "sync")
	assert.ErrorContains(t, err, "remote store is not configured")
}

func TestDBFlag(t *testing.T) {
	h := newHarness(t)
	other := filepath.Join(t.TempDir(), "other.db")

	_, err := h.run(t, saladText, "--db", other, "parse", "--heuristic", "--save")
	require.NoError(t, err)
	assert.FileExists(t, other)

	out, err := h.run(t, "", "list", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}
