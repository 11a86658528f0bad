package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
)

// BundleVersion is the export format version.
const BundleVersion = 1

// Bundle is the import/export document.
type Bundle struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Recipes    []*Recipe `json:"recipes"`
}

// Export snapshots every stored recipe.
func (s *Service) Export(ctx context.Context) (*Bundle, error) {
	recipes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []*Recipe{}
	}
	return &Bundle{
		Version:    BundleVersion,
		ExportedAt: s.now().UTC(),
		Recipes:    recipes,
	}, nil
}

// DecodeBundle reads the recipes array of an import document. A missing or
// non-array recipes field is ErrInvalidImport.
func DecodeBundle(data []byte) ([]*Recipe, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	raw, ok := doc["recipes"]
	if !ok {
		return nil, fmt.Errorf("%w: recipes field is missing", ErrInvalidImport)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: recipes is not an array", ErrInvalidImport)
	}

	var recipes []*Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return recipes, nil
}

// Import loads a bundle. Every recipe is validated before the store is
// touched. With merge the recipes get fresh ids and join the existing
// ones; without it the store is replaced and bundle ids are kept.
// createdAt is kept when present and updatedAt is refreshed.
func (s *Service) Import(ctx context.Context, data []byte, merge bool) ([]*Recipe, error) {
	incoming, err := DecodeBundle(data)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	prepared := make([]*Recipe, 0, len(incoming))
	for i, r := range incoming {
		if r == nil {
			return nil, fmt.Errorf("%w: recipe %d is null", ErrInvalidImport, i)
		}
		out := r.Clone()
		if err := s.validator.Validate(out); err != nil {
			return nil, fmt.Errorf("%w: recipe %d: %w", ErrInvalidImport, i, err)
		}
		if merge || out.ID == "" {
			out.ID = s.newID()
		}
		if out.CreatedAt.IsZero() {
			out.CreatedAt = now
		}
		out.UpdatedAt = now
		prepared = append(prepared, out)
	}

	if merge {
		for _, r := range prepared {
			if err := s.store.Put(ctx, r); err != nil {
				return nil, fmt.Errorf("failed to import recipe %q: %w", r.Title, err)
			}
		}
	} else if err := s.replace(ctx, prepared); err != nil {
		return nil, err
	}

	common.LogInfo("recipes imported", zap.Int("count", len(prepared)), zap.Bool("merge", merge))
	return prepared, nil
}

func (s *Service) replace(ctx context.Context, recipes []*Recipe) error {
	if rep, ok := s.store.(Replacer); ok {
		if err := rep.Replace(ctx, recipes); err != nil {
			return fmt.Errorf("failed to replace recipes: %w", err)
		}
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}
	for _, r := range recipes {
		if err := s.store.Put(ctx, r); err != nil {
			return fmt.Errorf("failed to import recipe %q: %w", r.Title, err)
		}
	}
	return nil
}

// SeedIfEmpty imports data without merging when the store holds no
// recipes. It reports whether anything was loaded.
func (s *Service) SeedIfEmpty(ctx context.Context, data []byte) (bool, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	imported, err := s.Import(ctx, data, false)
	if err != nil {
		return false, err
	}
	common.LogInfo("sample recipes loaded", zap.Int("count", len(imported)))
	return true, nil
}
