// Package app wires configuration into the stores and services shared by
// the HTTP server and the command line tool.
package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/ai/gemini"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/config"
	redisstore "github.com/panpapadopoulos/cooking/internal/infrastructure/storage/redis"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/storage/sqlite"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed samples.json
var sampleBundle []byte

// App holds the wired services. Syncer is nil unless the remote store is
// enabled.
type App struct {
	Config   *config.Config
	Registry *units.Registry
	Recipes  *recipe.Service
	AI       *ai.Service
	Syncer   *recipe.Syncer

	checks  map[string]func(context.Context) error
	closers []func() error
}

// New opens the configured stores and builds the services. Close releases
// them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:   cfg,
		Registry: units.Default(),
		checks:   make(map[string]func(context.Context) error),
	}

	local, err := a.openLocal()
	if err != nil {
		return nil, err
	}
	a.Recipes = recipe.NewService(local, recipe.WithRegistry(a.Registry))

	if cfg.Remote.Enabled {
		remote, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Remote.Addr,
			Password: cfg.Remote.Password,
			DB:       cfg.Remote.DB,
			Prefix:   cfg.Remote.Prefix,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open remote store: %w", err)
		}
		a.closers = append(a.closers, remote.Close)
		a.checks["remote"] = remote.Ping
		a.Syncer = recipe.NewSyncer(local, remote, cfg.Sync.Concurrency)
	}

	a.AI = a.buildAI()

	common.LogInfo("services ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("remote", cfg.Remote.Enabled),
		zap.Bool("ai_configured", a.AI.Configured()),
		zap.String("gemini_api_key", cfg.MaskedAPIKey()),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("unit_system", string(cfg.DefaultSystem())),
	)
	return a, nil
}

func (a *App) openLocal() (recipe.Store, error) {
	switch a.Config.Storage.Driver {
	case config.DriverMemory:
		return recipe.NewMemoryStore(), nil
	case config.DriverSQLite:
		store, err := sqlite.Open(a.Config.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.checks["store"] = store.Ping
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
	}
}

func (a *App) buildAI() *ai.Service {
	cfg := a.Config
	client := gemini.NewClient(gemini.Options{
		APIKey:    cfg.Gemini.APIKey,
		Model:     cfg.Gemini.Model,
		BaseURL:   cfg.Gemini.BaseURL,
		Timeout:   cfg.Gemini.Timeout,
		MaxTokens: cfg.Gemini.MaxTokens,
	})

	opts := []ai.Option{
		ai.WithRegistry(a.Registry),
		ai.WithTimeout(cfg.Gemini.Timeout),
	}
	if cfg.AI.RequestsPerMinute > 0 {
		burst := max(cfg.AI.Burst, 1)
		opts = append(opts, ai.WithLimiter(rate.NewLimiter(rate.Limit(float64(cfg.AI.RequestsPerMinute)/60), burst)))
	}
	if cfg.Cache.Enabled {
		cache := ai.NewCache(ai.CacheOptions{
			MaxSize:         cfg.Cache.MaxSize,
			TTL:             cfg.Cache.TTL,
			CleanupInterval: cfg.Cache.CleanupInterval,
		})
		a.closers = append(a.closers, cache.Close)
		opts = append(opts, ai.WithCache(cache))
	}
	return ai.NewService(client, opts...)
}

// Checks returns the dependency probes for the health endpoints.
func (a *App) Checks() map[string]func(context.Context) error {
	out := make(map[string]func(context.Context) error, len(a.checks))
	for name, check := range a.checks {
		out[name] = check
	}
	return out
}

// Seed loads sample recipes into an empty store when seeding is enabled.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.App.Seed {
		return nil
	}

	data := sampleBundle
	if path := a.Config.App.SeedFile; path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		data = raw
	}

	if _, err := a.Recipes.SeedIfEmpty(ctx, data); err != nil {
		return fmt.Errorf("failed to seed recipes: %w", err)
	}
	return nil
}

// Close releases stores and background workers in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
