package service

import (
	"bitwise74/docvault-api/internal/store"
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenCleanup periodically removes verification tokens that aren't needed
// anymore. It returns once ctx is cancelled.
func TokenCleanup(ctx context.Context, t time.Duration, s *store.Store) {
	ticker := time.NewTicker(t)
	defer ticker.Stop()

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			CleanupTokens(ctx, s, now)
		}
	}
}

// CleanupTokens runs a single cleanup pass
func CleanupTokens(ctx context.Context, s *store.Store, now time.Time) {
	n, err := s.PurgeVerificationTokens(ctx, now.UTC())
	if err != nil {
		zap.L().Error("Failed to cleanup verification tokens", zap.Error(err))
		return
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired tokens", zap.Int64("count", n))
	}
}
