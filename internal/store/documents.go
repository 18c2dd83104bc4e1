package store

import (
	"bitwise74/docvault-api/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// Sortable document columns
const (
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnTitle     = "title"
	ColumnFileSize  = "file_size"
	ColumnViewCount = "view_count"
)

// DocumentQuery selects an owner's documents in a stable total order: the sort
// column first and the id second, both in the same direction.
type DocumentQuery struct {
	OwnerID    string
	Category   model.Category // empty matches every category
	SortColumn string
	Descending bool
	Limit      int // 0 means no limit

	// After is the last document of the previous page
	After *model.Document
}

func (s *Store) CreateDocument(ctx context.Context, d *model.Document) error {
	return wrap(s.db.WithContext(ctx).Create(d).Error)
}

func (s *Store) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var d model.Document

	err := s.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&d).
		Error
	if err != nil {
		return nil, wrap(err)
	}

	return &d, nil
}

// UpdateDocument applies patch to the document. Map keys are column names, nil
// values are written as NULL.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch map[string]any) error {
	r := s.db.
		WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ?", id).
		UpdateColumns(patch)
	if r.Error != nil {
		return wrap(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	r := s.db.
		WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Document{})
	if r.Error != nil {
		return wrap(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Store) QueryDocuments(ctx context.Context, q DocumentQuery) ([]model.Document, error) {
	if q.SortColumn == "" {
		q.SortColumn = ColumnCreatedAt
	}

	tx := s.db.
		WithContext(ctx).
		Where("owner_id = ?", q.OwnerID)

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if q.After != nil {
		v, err := sortValue(q.After, q.SortColumn)
		if err != nil {
			return nil, err
		}

		col := clause.Column{Name: q.SortColumn}
		op := ">"
		if q.Descending {
			op = "<"
		}

		tx = tx.Where(
			fmt.Sprintf("(? %[1]s ?) OR (? = ? AND id %[1]s ?)", op),
			col, v, col, v, q.After.ID,
		)
	}

	tx = tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortColumn}, Desc: q.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Descending})

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var docs []model.Document
	if err := tx.Find(&docs).Error; err != nil {
		return nil, wrap(err)
	}

	return docs, nil
}

func sortValue(d *model.Document, column string) (any, error) {
	switch column {
	case ColumnCreatedAt:
		return d.CreatedAt, nil
	case ColumnUpdatedAt:
		return d.UpdatedAt, nil
	case ColumnTitle:
		return d.Title, nil
	case ColumnFileSize:
		return d.FileSize, nil
	case ColumnViewCount:
		return d.ViewCount, nil
	}

	return nil, fmt.Errorf("unsupported sort column %q", column)
}
