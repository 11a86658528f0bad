package recipe

import "context"

// Store persists recipes. Implementations own their connection handle and
// are passed explicitly to whatever needs persistence.
type Store interface {
	// List returns every recipe, newest createdAt first.
	List(ctx context.Context) ([]*Recipe, error)
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Recipe, error)
	// Put inserts or replaces the recipe with r.ID.
	Put(ctx context.Context, r *Recipe) error
	// Delete returns ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Replacer is implemented by stores that can swap their whole contents
// atomically. Import uses it for non-merging imports when available.
type Replacer interface {
	Replace(ctx context.Context, recipes []*Recipe) error
}
