// Package auth is the local identity provider. It owns accounts, password
// hashes, sessions and the e-mail verification and password reset flows.
package auth

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/pkg/security"
	"bitwise74/docvault-api/pkg/util"
	"bitwise74/docvault-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session invalid")
	ErrSessionExpired     = errors.New("session expired")
	ErrTokenInvalid       = errors.New("token expired or invalid")
	ErrTokenUsed          = errors.New("token was used already")
	ErrTokenExpired       = errors.New("token expired")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrCooldown           = errors.New("verification email was sent recently")
	ErrUnavailable        = errors.New("identity provider unavailable")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrPasswordRejected   = errors.New("password rejected")
)

const (
	sessionTTL      = time.Hour * 24 * 30
	// Sessions without remember me live in a browser session cookie
	shortSessionTTL = time.Hour * 12
	tokenTTL        = time.Minute * 30
	tokenCleanupTTL = time.Hour * 24 * 60
	resendCooldown  = time.Minute
)

// Session is the authenticated principal
type Session struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	ExpiresAt     time.Time `json:"expiresAt"`
	// Persistent sessions survive a browser restart
	Persistent bool `json:"persistent"`

	version int
}

// Provisioner runs inside the sign up transaction right after the account
// row is written. An error rolls the account back.
type Provisioner func(ctx context.Context, tx *gorm.DB, s *Session) error

type EventType string

const (
	EventSignedUp  EventType = "signed_up"
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventVerified  EventType = "verified"
)

type SessionEvent struct {
	Type    EventType
	Session *Session
}

type Options struct {
	Secret []byte
	// Origin is where links in e-mails point to
	Origin string
	Mailer Mailer
	Argon  *security.ArgonHash
	Now    func() time.Time
}

type Provider struct {
	db     *gorm.DB
	secret []byte
	origin string
	mailer Mailer
	argon  *security.ArgonHash
	now    func() time.Time

	mu        sync.RWMutex
	listeners []func(context.Context, SessionEvent)
}

func New(db *gorm.DB, o Options) *Provider {
	if o.Argon == nil {
		o.Argon = security.New()
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return &Provider{
		db:     db,
		secret: o.Secret,
		origin: strings.TrimSuffix(o.Origin, "/"),
		mailer: o.Mailer,
		argon:  o.Argon,
		now:    func() time.Time { return o.Now().UTC() },
	}
}

// OnSessionChange registers fn to run after every sign up, sign in, sign out
// and verification. Callbacks run synchronously in registration order.
func (p *Provider) OnSessionChange(fn func(context.Context, SessionEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listeners = append(p.listeners, fn)
}

func (p *Provider) emit(ctx context.Context, t EventType, s *Session) {
	p.mu.RLock()
	listeners := p.listeners
	p.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, SessionEvent{Type: t, Session: s})
	}
}

// SignUp creates an unverified account. provision, when given, writes the
// records that must exist alongside it in the same transaction. The caller
// decides when to send the verification e-mail.
func (p *Provider) SignUp(ctx context.Context, email, password string, provision ...Provisioner) (*Session, error) {
	email = validators.NormalizeEmail(email)

	if err := validators.EmailValidator(email); err != nil {
		return nil, err
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, err
	}

	hash, err := p.argon.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := util.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id, %w", err)
	}

	acc := model.Account{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}

	s := p.sessionFor(&acc, true)

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertAccount(tx, &acc); err != nil {
			return err
		}

		for _, fn := range provision {
			if err := fn(ctx, tx, s); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.emit(ctx, EventSignedUp, s)

	return s, nil
}

// insertAccount checks the address first for a clean error. The unique email
// index still decides between two sign ups racing past the check.
func insertAccount(tx *gorm.DB, acc *model.Account) error {
	var taken bool

	err := tx.
		Model(model.Account{}).
		Select("count(*) > 0").
		Where("email = ?", acc.Email).
		Find(&taken).
		Error
	if err != nil {
		return fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	if taken {
		return ErrEmailTaken
	}

	return createAccount(tx, acc)
}

func createAccount(tx *gorm.DB, acc *model.Account) error {
	if err := tx.Create(acc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}

		return fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	return nil
}

// SignIn checks the credentials and returns the session with a signed token.
// remember picks a persistent session over one that ends with the browser.
func (p *Provider) SignIn(ctx context.Context, email, password string, remember bool) (*Session, string, error) {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	acc, err := p.account(ctx, "email = ?", email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	ok, err := p.argon.VerifyPasswd(password, acc.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if p.argon.NeedsRehash(acc.PasswordHash) {
		p.rehash(ctx, acc.ID, password)
	}

	s := p.sessionFor(acc, remember)

	token, err := p.signToken(s)
	if err != nil {
		return nil, "", err
	}

	p.emit(ctx, EventSignedIn, s)

	return s, token, nil
}

// rehash upgrades a stored hash to the current argon parameters. Failing
// here never blocks the sign in.
func (p *Provider) rehash(ctx context.Context, accountID, password string) {
	hash, err := p.argon.GenerateFromPassword(password)
	if err == nil {
		err = p.db.WithContext(ctx).Model(&model.Account{}).
			Where("id = ?", accountID).
			Update("password_hash", hash).Error
	}

	if err != nil {
		zap.L().Warn("Failed to upgrade password hash", zap.Error(err), zap.String("userID", accountID))
	}
}

// revoked is the update that invalidates every session issued so far
func (p *Provider) revoked(extra map[string]any) map[string]any {
	m := map[string]any{
		"signed_out_at": p.now(),
		"token_version": gorm.Expr("token_version + 1"),
	}
	for k, v := range extra {
		m[k] = v
	}

	return m
}

// SignOut revokes every session of the account, including ones issued a
// moment ago
func (p *Provider) SignOut(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrSessionInvalid
	}

	err := p.db.
		WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", s.ID).
		Updates(p.revoked(nil)).
		Error
	if err != nil {
		return fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	p.emit(ctx, EventSignedOut, s)

	return nil
}

// ChangePassword replaces the password of a signed in account after checking
// the current one. Every other session is revoked and a fresh one with the
// same persistence is returned for the caller.
func (p *Provider) ChangePassword(ctx context.Context, s *Session, current, next string) (*Session, string, error) {
	if s == nil {
		return nil, "", ErrSessionInvalid
	}

	if current == next {
		return nil, "", ErrSamePassword
	}

	if err := validators.PasswordValidator(next); err != nil {
		return nil, "", fmt.Errorf("%w, %w", ErrPasswordRejected, err)
	}

	acc, err := p.account(ctx, "id = ?", s.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSessionInvalid
		}

		return nil, "", err
	}

	ok, err := p.argon.VerifyPasswd(current, acc.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, "", ErrWrongPassword
	}

	hash, err := p.argon.GenerateFromPassword(next)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password, %w", err)
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Account{}).
			Where("id = ?", acc.ID).
			Updates(p.revoked(map[string]any{"password_hash": hash})).
			Error
		if err != nil {
			return err
		}

		return tx.Where("id = ?", acc.ID).First(acc).Error
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	fresh := p.sessionFor(acc, s.Persistent)

	token, err := p.signToken(fresh)
	if err != nil {
		return nil, "", err
	}

	zap.L().Info("Password changed", zap.String("userID", acc.ID))

	return fresh, token, nil
}

func (p *Provider) account(ctx context.Context, query string, args ...any) (*model.Account, error) {
	var acc model.Account

	err := p.db.
		WithContext(ctx).
		Where(query, args...).
		First(&acc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w, %w", ErrUnavailable, err)
	}

	return &acc, nil
}

func (p *Provider) sessionFor(acc *model.Account, persistent bool) *Session {
	ttl := sessionTTL
	if !persistent {
		ttl = shortSessionTTL
	}

	return &Session{
		ID:            acc.ID,
		Email:         acc.Email,
		EmailVerified: acc.Verified,
		ExpiresAt:     p.now().Add(ttl),
		Persistent:    persistent,
		version:       acc.TokenVersion,
	}
}
