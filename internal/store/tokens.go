package store

import (
	"bitwise74/docvault-api/internal/model"
	"context"
	"time"
)

// PurgeVerificationTokens removes tokens that expired or reached their
// cleanup date before t and reports how many were removed
func (s *Store) PurgeVerificationTokens(ctx context.Context, t time.Time) (int64, error) {
	r := s.db.
		WithContext(ctx).
		Where("expires_at < ? OR cleanup_at < ?", t, t).
		Delete(&model.VerificationToken{})
	if r.Error != nil {
		return 0, wrap(r.Error)
	}

	return r.RowsAffected, nil
}
