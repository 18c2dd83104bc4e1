package store

import (
	"bitwise74/docvault-api/internal/model"
	"context"
)

// AppendAccessLog writes one access log entry. Entries are never updated or read back.
func (s *Store) AppendAccessLog(ctx context.Context, l *model.AccessLog) error {
	return wrap(s.db.WithContext(ctx).Create(l).Error)
}
