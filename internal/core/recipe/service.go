package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
)

// Service applies the save-time rules on top of a Store: validation, id
// assignment and timestamps.
type Service struct {
	store     Store
	validator *Validator
	registry  *units.Registry
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithRegistry sets the unit registry used for validation and views.
func WithRegistry(reg *units.Registry) Option {
	return func(s *Service) { s.registry = reg }
}

// NewService wires a Service to store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: units.Default(),
		now:      time.Now,
		newID:    common.GenerateUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(s.registry)
	return s
}

// Store exposes the underlying store, for sync and health checks.
func (s *Service) Store() Store {
	return s.store
}

// Validate runs the save-time checks without saving.
func (s *Service) Validate(r *Recipe) error {
	return s.validator.Validate(r)
}

// Save creates or updates a recipe. A recipe without id gets one and a
// createdAt; an existing recipe keeps its stored createdAt. updatedAt is
// always refreshed. The caller's value is not modified.
func (s *Service) Save(ctx context.Context, r *Recipe) (*Recipe, error) {
	if r == nil {
		return nil, s.validator.Validate(nil)
	}
	out := r.Clone()
	out.Title = strings.TrimSpace(out.Title)
	if err := s.validator.Validate(out); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if out.ID == "" {
		out.ID = s.newID()
		out.CreatedAt = now
	} else {
		existing, err := s.store.Get(ctx, out.ID)
		switch {
		case err == nil:
			out.CreatedAt = existing.CreatedAt
		case errors.Is(err, ErrNotFound):
			if out.CreatedAt.IsZero() {
				out.CreatedAt = now
			}
		default:
			return nil, fmt.Errorf("failed to load recipe %s: %w", out.ID, err)
		}
	}
	out.UpdatedAt = now

	if err := s.store.Put(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	common.LogDebug("recipe saved", zap.String("id", out.ID), zap.String("title", out.Title))
	return out, nil
}

// Get returns a recipe or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns every recipe, newest first.
func (s *Service) List(ctx context.Context) ([]*Recipe, error) {
	recipes, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Delete removes a recipe or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	common.LogDebug("recipe deleted", zap.String("id", id))
	return nil
}

// Clear removes every recipe.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}
	common.LogInfo("all recipes cleared")
	return nil
}
