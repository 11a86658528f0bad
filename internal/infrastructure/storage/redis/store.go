// Package redis is the remote recipe store used as the sync target.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultPrefix = "cooking"

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key; defaults to "cooking".
	Prefix string
}

// Store keeps each recipe as JSON under {prefix}:recipe:{id} and indexes
// ids in a sorted set scored by createdAt.
type Store struct {
	client *redis.Client
	prefix string
}

var _ recipe.Store = (*Store)(nil)
var _ recipe.Replacer = (*Store)(nil)

// New connects and pings the server.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("redis store connected", zap.String("addr", opts.Addr))
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) recipeKey(id string) string {
	return fmt.Sprintf("%s:recipe:%s", s.prefix, id)
}

func (s *Store) indexKey() string {
	return s.prefix + ":recipes"
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// List returns all recipes, newest createdAt first. Index entries whose
// document has expired or vanished are skipped.
func (s *Store) List(ctx context.Context) ([]*recipe.Recipe, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe index: %w", err)
	}
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recipeKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			common.LogWarn("recipe index entry without document", zap.String("id", ids[i]))
			continue
		}
		r, err := decode([]byte(data))
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	// ZREVRANGE breaks score ties by member descending
	recipe.SortNewestFirst(recipes)
	return recipes, nil
}

// Get returns recipe.ErrNotFound for unknown ids.
func (s *Store) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	data, err := s.client.Get(ctx, s.recipeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, recipe.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return decode(data)
}

// Put writes the document and its index entry atomically.
func (s *Store) Put(ctx context.Context, r *recipe.Recipe) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return s.queuePut(ctx, pipe, r)
	})
	if err != nil {
		return fmt.Errorf("failed to put recipe %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) queuePut(ctx context.Context, pipe redis.Pipeliner, r *recipe.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	pipe.Set(ctx, s.recipeKey(r.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), &redis.Z{
		Score:  float64(r.CreatedAt.UnixMilli()),
		Member: r.ID,
	})
	return nil
}

// Delete returns recipe.ErrNotFound when the key did not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.recipeKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	if del.Val() == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

// Clear removes every indexed recipe and the index itself.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return s.queueClear(ctx, pipe)
	})
	if err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}
	return nil
}

func (s *Store) queueClear(ctx context.Context, pipe redis.Pipeliner) error {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		pipe.Del(ctx, s.recipeKey(id))
	}
	pipe.Del(ctx, s.indexKey())
	return nil
}

// Replace clears and writes in one MULTI/EXEC block.
func (s *Store) Replace(ctx context.Context, recipes []*recipe.Recipe) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := s.queueClear(ctx, pipe); err != nil {
			return err
		}
		for _, r := range recipes {
			if err := s.queuePut(ctx, pipe, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace recipes: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decode(data []byte) (*recipe.Recipe, error) {
	var r recipe.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &r, nil
}
