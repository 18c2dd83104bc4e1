package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func (p *Provider) signToken(s *Session) (string, error) {
	now := p.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": s.ID,
		"type":    "auth",
		"iat":     now.Unix(),
		"exp":     s.ExpiresAt.Unix(),
		"ver":     s.version,
		"persist": s.Persistent,
	})

	signed, err := t.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token, %w", err)
	}

	return signed, nil
}

// CurrentSession resolves a signed token into a session. Tokens minted under
// an older token version than the account's are rejected.
func (p *Provider) CurrentSession(ctx context.Context, tokenStr string) (*Session, error) {
	if tokenStr == "" {
		return nil, ErrSessionInvalid
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}

		return nil, fmt.Errorf("%w, %w", ErrSessionInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSessionInvalid
	}

	if typ, _ := claims["type"].(string); typ != "auth" {
		return nil, ErrSessionInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrSessionInvalid
	}

	ver, ok := claims["ver"].(float64)
	if !ok {
		return nil, ErrSessionInvalid
	}

	persistent, _ := claims["persist"].(bool)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrSessionInvalid
	}

	acc, err := p.account(ctx, "id = ?", userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}

		return nil, err
	}

	if int(ver) != acc.TokenVersion {
		return nil, ErrSessionExpired
	}

	return &Session{
		ID:            acc.ID,
		Email:         acc.Email,
		EmailVerified: acc.Verified,
		ExpiresAt:     exp.UTC(),
		Persistent:    persistent,
		version:       acc.TokenVersion,
	}, nil
}
