package store

import (
	"bitwise74/docvault-api/internal/model"
	"context"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return wrap(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&u).
		Error
	if err != nil {
		return nil, wrap(err)
	}

	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch map[string]any) error {
	r := s.db.
		WithContext(ctx).
		Model(&model.User{}).
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

// ListUsers returns every profile, newest first
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User

	err := s.db.
		WithContext(ctx).
		Order("created_at desc").
		Find(&users).
		Error
	if err != nil {
		return nil, wrap(err)
	}

	return users, nil
}
