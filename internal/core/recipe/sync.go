package recipe

import (
	"context"
	"fmt"

	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncReport counts what one Sync moved.
type SyncReport struct {
	Pushed    int `json:"pushed"`
	Pulled    int `json:"pulled"`
	Unchanged int `json:"unchanged"`
}

// Syncer reconciles a local and a remote store with last-write-wins on
// updatedAt. Deletions are not propagated: a recipe missing on one side is
// copied from the other.
type Syncer struct {
	local       Store
	remote      Store
	concurrency int
}

// NewSyncer pairs two stores. concurrency bounds the in-flight writes.
func NewSyncer(local, remote Store, concurrency int) *Syncer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Syncer{local: local, remote: remote, concurrency: concurrency}
}

type syncOp struct {
	recipe *Recipe
	target Store
}

// Sync copies every recipe that is newer or missing on the other side.
// Equal timestamps leave both sides alone.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	var report SyncReport

	var localRecipes, remoteRecipes []*Recipe
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		localRecipes, err = s.local.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list local recipes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		remoteRecipes, err = s.remote.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list remote recipes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report, err
	}

	remoteByID := make(map[string]*Recipe, len(remoteRecipes))
	for _, r := range remoteRecipes {
		remoteByID[r.ID] = r
	}

	var ops []syncOp
	for _, l := range localRecipes {
		r, ok := remoteByID[l.ID]
		delete(remoteByID, l.ID)
		switch {
		case !ok || l.UpdatedAt.After(r.UpdatedAt):
			ops = append(ops, syncOp{recipe: l, target: s.remote})
			report.Pushed++
		case r.UpdatedAt.After(l.UpdatedAt):
			ops = append(ops, syncOp{recipe: r, target: s.local})
			report.Pulled++
		default:
			report.Unchanged++
		}
	}
	// whatever is left exists only remotely
	for _, r := range remoteRecipes {
		if _, ok := remoteByID[r.ID]; ok {
			ops = append(ops, syncOp{recipe: r, target: s.local})
			report.Pulled++
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, op := range ops {
		g.Go(func() error {
			if err := op.target.Put(gctx, op.recipe); err != nil {
				return fmt.Errorf("failed to sync recipe %s: %w", op.recipe.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	common.LogInfo("recipes synced",
		zap.Int("pushed", report.Pushed),
		zap.Int("pulled", report.Pulled),
		zap.Int("unchanged", report.Unchanged),
	)
	return report, nil
}
