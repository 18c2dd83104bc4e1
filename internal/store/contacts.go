package store

import (
	"bitwise74/docvault-api/internal/model"
	"context"
)

func (s *Store) CreateContact(ctx context.Context, c *model.Contact) error {
	return wrap(s.db.WithContext(ctx).Create(c).Error)
}

// ListContacts returns every contact message, newest first
func (s *Store) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact

	err := s.db.
		WithContext(ctx).
		Order("created_at desc").
		Find(&contacts).
		Error
	if err != nil {
		return nil, wrap(err)
	}

	return contacts, nil
}
