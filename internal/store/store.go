// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store is the content repository: posts and the category catalog
// in a SQLite database. The UNIQUE constraint on post slugs is the
// authoritative duplicate guard; callers' pre-insert existence checks are
// a fast path only.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// ErrDuplicateSlug reports an insert that lost the race against another
// writer with the same slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// Store manages the content repository database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path and ensures the
// schema exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the repository connection is live.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			automation_status TEXT,
			idempotency_key TEXT,
			category_id INTEGER REFERENCES categories(id),
			data TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_idempotency_key ON posts(idempotency_key)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// InsertPost persists a finished draft. A slug collision returns
// ErrDuplicateSlug so the caller can treat the race as a skip.
func (s *Store) InsertPost(ctx context.Context, draft *types.PostDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}

	var categoryID any
	if draft.CategoryID != 0 {
		categoryID = draft.CategoryID
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO posts (title, slug, status, automation_status, idempotency_key, category_id, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.Title, draft.Slug, string(draft.Status),
		string(draft.AutomationDetails.AutomationStatus),
		draft.AutomationDetails.IdempotencyKey,
		categoryID, string(data),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrDuplicateSlug, draft.Slug)
		}
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

// FindBySlug returns the stored draft with the given slug, or nil when
// none exists.
func (s *Store) FindBySlug(ctx context.Context, slug string) (*types.PostDraft, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM posts WHERE slug = ?`, slug,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying slug %q: %w", slug, err)
	}

	var draft types.PostDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("unmarshaling post %q: %w", slug, err)
	}
	return &draft, nil
}

// SlugExists reports whether any post carries the slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts WHERE slug = ?`, slug,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking slug %q: %w", slug, err)
	}
	return n > 0, nil
}

// CompletedKeyExists reports whether a post with this idempotency key
// already finished the pipeline.
func (s *Store) CompletedKeyExists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts WHERE idempotency_key = ? AND automation_status = ?`,
		key, string(types.AutomationCompleted),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking idempotency key: %w", err)
	}
	return n > 0, nil
}

// TitleExists reports whether any stored title contains the given title,
// case-insensitively.
func (s *Store) TitleExists(ctx context.Context, title string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts WHERE instr(lower(title), lower(?)) > 0`, title,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking title: %w", err)
	}
	return n > 0, nil
}

// AllCategories returns the catalog ordered by display order, then name.
func (s *Store) AllCategories(ctx context.Context) ([]types.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, display_order FROM categories ORDER BY display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryBySlug returns the category with an exact slug match, or nil.
func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*types.Category, error) {
	return s.oneCategory(ctx,
		`SELECT id, name, slug, display_order FROM categories WHERE slug = ?`, slug)
}

// CategoryByNameContains returns the first category whose name contains
// the substring, case-insensitively, or nil.
func (s *Store) CategoryByNameContains(ctx context.Context, substr string) (*types.Category, error) {
	return s.oneCategory(ctx,
		`SELECT id, name, slug, display_order FROM categories
		 WHERE instr(lower(name), lower(?)) > 0
		 ORDER BY display_order, name LIMIT 1`, substr)
}

func (s *Store) oneCategory(ctx context.Context, query string, arg any) (*types.Category, error) {
	var c types.Category
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Slug, &c.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

// defaultCategories is the standard portal catalog installed on first run.
var defaultCategories = []types.Category{
	{Name: "Latest Jobs", Slug: "latest-jobs", DisplayOrder: 1},
	{Name: "Results", Slug: "result", DisplayOrder: 2},
	{Name: "Admit Card", Slug: "admit-card", DisplayOrder: 3},
	{Name: "Syllabus", Slug: "syllabus", DisplayOrder: 4},
	{Name: "Answer Key", Slug: "answer-key", DisplayOrder: 5},
}

// SeedCategories installs the standard catalog when the table is empty.
// It reports whether seeding happened.
func (s *Store) SeedCategories(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM categories`).Scan(&n); err != nil {
		return false, fmt.Errorf("counting categories: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range defaultCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, slug, display_order) VALUES (?, ?, ?)`,
			c.Name, c.Slug, c.DisplayOrder,
		); err != nil {
			return false, fmt.Errorf("seeding category %q: %w", c.Slug, err)
		}
	}
	return true, tx.Commit()
}

// InsertCategory adds one category to the catalog.
func (s *Store) InsertCategory(ctx context.Context, c types.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, slug, display_order) VALUES (?, ?, ?)`,
		c.Name, c.Slug, c.DisplayOrder,
	)
	if err != nil {
		return fmt.Errorf("inserting category %q: %w", c.Slug, err)
	}
	return nil
}
