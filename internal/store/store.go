// Package store is the metadata store client. It wraps gorm with typed CRUD,
// owner scoped queries and atomic counters, and folds every driver error into
// ErrNotFound or ErrUnavailable so callers never depend on gorm directly.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("store unavailable")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a store bound to a single transaction. Any error
// returned by fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}

	// Errors that aren't ours come from gorm when beginning or committing
	return wrap(err)
}

// Increment atomically adds delta to column on the row of m identified by id.
// The addition happens inside the UPDATE statement so concurrent callers never
// lose an update. extra columns are written in the same statement.
func (s *Store) Increment(ctx context.Context, m any, id, column string, delta int, extra map[string]any) error {
	updates := map[string]any{
		column: gorm.Expr("? + ?", clause.Column{Name: column}, delta),
	}
	for k, v := range extra {
		updates[k] = v
	}

	r := s.db.
		WithContext(ctx).
		Model(m).
		Where("id = ?", id).
		UpdateColumns(updates)
	if r.Error != nil {
		return wrap(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return fmt.Errorf("%w, %w", ErrUnavailable, err)
}
