// Package sqlite is the local recipe store on a pure-Go SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps each recipe as a JSON document with its id, title and
// timestamps broken out for indexing.
type Store struct {
	db *sql.DB
}

var _ recipe.Store = (*Store)(nil)
var _ recipe.Replacer = (*Store)(nil)

// Open creates or opens the database at path, sets the pragmas and applies
// the schema. ":memory:" is accepted for throwaway stores.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	common.LogInfo("sqlite store opened", zap.String("path", path))
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// timeLayout is fixed width so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*recipe.Recipe, error) {
	var data string
	if err := scanner.Scan(&data); err != nil {
		return nil, err
	}
	var r recipe.Recipe
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	return &r, nil
}

// List returns all recipes, newest createdAt first.
func (s *Store) List(ctx context.Context) ([]*recipe.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM recipes ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*recipe.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// Get returns recipe.ErrNotFound for unknown ids.
func (s *Store) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recipe.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, db execer, r *recipe.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		r.ID,
		r.Title,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
		string(data),
	)
	return err
}

// Put inserts or replaces a recipe.
func (s *Store) Put(ctx context.Context, r *recipe.Recipe) error {
	if err := put(ctx, s.db, r); err != nil {
		return fmt.Errorf("upsert recipe %s: %w", r.ID, err)
	}
	return nil
}

// Delete returns recipe.ErrNotFound when nothing was removed.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

// Clear removes every recipe.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}
	return nil
}

// Replace swaps the table contents in one transaction.
func (s *Store) Replace(ctx context.Context, recipes []*recipe.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}
	for _, r := range recipes {
		if err := put(ctx, tx, r); err != nil {
			return fmt.Errorf("insert recipe %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
