package security

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/pkg/util"
	"errors"
	"fmt"
	"time"
)

// tokenBytes of randomness give 64 hex characters in the e-mailed link
const tokenBytes = 32

var (
	ErrTokenOwner   = errors.New("token needs a user id")
	ErrTokenPurpose = errors.New("unknown token purpose")
	ErrTokenTTL     = errors.New("token lifetime must be positive")
)

// TokenLifetime says how long a token works and how long its row is kept
// afterwards for auditing. Retention below TTL is raised to TTL.
type TokenLifetime struct {
	TTL       time.Duration
	Retention time.Duration
}

// NewVerificationToken mints a single use token for purpose, issued at now
func NewVerificationToken(userID, purpose string, now time.Time, l TokenLifetime) (*model.VerificationToken, error) {
	if userID == "" {
		return nil, ErrTokenOwner
	}

	if purpose != model.TokenPurposeEmailVerify && purpose != model.TokenPurposePasswordReset {
		return nil, fmt.Errorf("%w %q", ErrTokenPurpose, purpose)
	}

	if l.TTL <= 0 {
		return nil, ErrTokenTTL
	}

	token, err := util.GenerateToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	cleanupAt := now.Add(max(l.TTL, l.Retention))

	return &model.VerificationToken{
		UserID:    userID,
		Token:     token,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(l.TTL),
		CleanupAt: &cleanupAt,
	}, nil
}
