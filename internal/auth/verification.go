package auth

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/pkg/security"
	"bitwise74/docvault-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CooldownError tells the caller how long to wait before asking again
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, try again in %s", ErrCooldown, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error {
	return ErrCooldown
}

// SendVerificationEmail mints a fresh verification token and mails it. Calls
// within the cooldown window are refused with a *CooldownError.
func (p *Provider) SendVerificationEmail(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrSessionInvalid
	}

	if s.EmailVerified {
		return ErrAlreadyVerified
	}

	now := p.now()

	var tok *model.VerificationToken

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rr model.ResendRequest

		err := tx.Where("user_id = ?", s.ID).First(&rr).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil && now.Before(rr.Cooldown) {
			return &CooldownError{Remaining: rr.Cooldown.Sub(now)}
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_resend", "cooldown"}),
		}).Create(&model.ResendRequest{
			UserID:     s.ID,
			LastResend: now,
			Cooldown:   now.Add(resendCooldown),
		}).Error
		if err != nil {
			return err
		}

		tok, err = p.mintToken(tx, s.ID, model.TokenPurposeEmailVerify)
		return err
	})
	if err != nil {
		var cd *CooldownError
		if errors.As(err, &cd) {
			return cd
		}

		return fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	link := p.link("/verify", tok)
	body := fmt.Sprintf("Click <a href='%v'>here</a> to verify your account.\n\nThis link will expire in 30 minutes", link)

	return p.mailer.Send(ctx, s.Email, "Verify your email to start using DocVault", body)
}

// Verify consumes an e-mail verification token and marks the account verified
func (p *Provider) Verify(ctx context.Context, userID, token string) error {
	var acc model.Account

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.consumeToken(tx, userID, token, model.TokenPurposeEmailVerify); err != nil {
			return err
		}

		if err := tx.Model(&model.Account{}).Where("id = ?", userID).Update("verified", true).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", userID).First(&acc).Error
	})
	if err != nil {
		return mapTokenErr(err)
	}

	p.emit(ctx, EventVerified, p.sessionFor(&acc, true))

	return nil
}

// RequestPasswordReset mails a reset link. Unknown addresses are accepted
// silently so callers can't probe for registered e-mails.
func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if err := validators.EmailValidator(email); err != nil {
		return err
	}

	acc, err := p.account(ctx, "email = ?", email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Debug("Password reset requested for unknown email")
			return nil
		}

		return err
	}

	tok, err := p.mintToken(p.db.WithContext(ctx), acc.ID, model.TokenPurposePasswordReset)
	if err != nil {
		return fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	link := p.link("/reset-password", tok)
	body := fmt.Sprintf("Click <a href='%v'>here</a> to choose a new password.\n\nThis link will expire in 30 minutes. If you didn't ask for this you can ignore this email.", link)

	return p.mailer.Send(ctx, acc.Email, "Reset your DocVault password", body)
}

// ResetPassword consumes a reset token, stores the new hash and signs the
// account out everywhere.
func (p *Provider) ResetPassword(ctx context.Context, userID, token, password string) error {
	if err := validators.PasswordValidator(password); err != nil {
		return err
	}

	hash, err := p.argon.GenerateFromPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.consumeToken(tx, userID, token, model.TokenPurposePasswordReset); err != nil {
			return err
		}

		return tx.Model(&model.Account{}).
			Where("id = ?", userID).
			Updates(p.revoked(map[string]any{"password_hash": hash})).Error
	})
	if err != nil {
		return mapTokenErr(err)
	}

	zap.L().Info("Password reset", zap.String("userID", userID))

	return nil
}

func (p *Provider) mintToken(tx *gorm.DB, userID, purpose string) (*model.VerificationToken, error) {
	tok, err := security.NewVerificationToken(userID, purpose, p.now(), security.TokenLifetime{
		TTL:       tokenTTL,
		Retention: tokenCleanupTTL,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Create(tok).Error; err != nil {
		return nil, err
	}

	return tok, nil
}

func (p *Provider) consumeToken(tx *gorm.DB, userID, token, purpose string) error {
	if userID == "" || token == "" {
		return ErrTokenInvalid
	}

	var rec model.VerificationToken

	err := tx.
		Where("user_id = ? AND token = ? AND purpose = ?", userID, token, purpose).
		First(&rec).
		Error
	if err != nil {
		return err
	}

	if rec.Used {
		return ErrTokenUsed
	}

	now := p.now()
	if rec.ExpiresAt.Before(now) {
		return ErrTokenExpired
	}

	return tx.Model(&model.VerificationToken{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"used":    true,
			"used_at": now,
		}).Error
}

func (p *Provider) link(path string, t *model.VerificationToken) string {
	q := url.Values{"user_id": {t.UserID}, "token": {t.Token}}
	return p.origin + path + "?" + q.Encode()
}

func mapTokenErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTokenInvalid
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenUsed), errors.Is(err, ErrTokenExpired):
		return err
	}

	return fmt.Errorf("%w, %w", ErrUnavailable, err)
}
