package service

import (
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/pkg/validators"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxDisplayNameLength = 100

// ProfilePatch holds the fields a user may change on their own profile
type ProfilePatch struct {
	DisplayName *string
	NationalID  *string
	Phone       *string
}

type Profiles struct {
	store *store.Store
	now   func() time.Time
}

func NewProfiles(s *store.Store, now func() time.Time) *Profiles {
	if now == nil {
		now = time.Now
	}

	return &Profiles{
		store: s,
		now:   func() time.Time { return now().UTC() },
	}
}

// Create mirrors a freshly registered account into a profile with the user role
func (p *Profiles) Create(ctx context.Context, s *auth.Session, displayName, nationalID string) (*model.User, error) {
	return p.create(ctx, p.store, s, displayName, nationalID)
}

// Provision returns a sign up step that writes the profile in the account's
// transaction, so an account never exists without its profile. The created
// profile is stored in out.
func (p *Profiles) Provision(displayName, nationalID string, out **model.User) auth.Provisioner {
	return func(ctx context.Context, tx *gorm.DB, s *auth.Session) error {
		u, err := p.create(ctx, store.New(tx), s, displayName, nationalID)
		if err != nil {
			return err
		}

		if out != nil {
			*out = u
		}

		return nil
	}
}

func (p *Profiles) create(ctx context.Context, st *store.Store, s *auth.Session, displayName, nationalID string) (*model.User, error) {
	if s == nil {
		return nil, validation("no session")
	}

	displayName, nationalID, err := checkProfile(displayName, nationalID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	u := &model.User{
		ID:            s.ID,
		Email:         s.Email,
		DisplayName:   displayName,
		NationalID:    nationalID,
		Role:          model.RoleUser,
		EmailVerified: s.EmailVerified,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := st.CreateUser(ctx, u); err != nil {
		return nil, storeErr(err)
	}

	return u, nil
}

func (p *Profiles) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := p.store.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	return u, nil
}

func (p *Profiles) Update(ctx context.Context, id string, patch ProfilePatch) (*model.User, error) {
	u, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	displayName, nationalID := u.DisplayName, u.NationalID
	if patch.DisplayName != nil {
		displayName = *patch.DisplayName
	}
	if patch.NationalID != nil {
		nationalID = *patch.NationalID
	}

	displayName, nationalID, err = checkProfile(displayName, nationalID)
	if err != nil {
		return nil, err
	}

	phone := u.Phone
	if patch.Phone != nil {
		phone = strings.TrimSpace(*patch.Phone)
		if phone != "" && !validators.ValidatePhone(phone) {
			return nil, validation("invalid phone number")
		}
	}

	u.DisplayName = displayName
	u.NationalID = nationalID
	u.Phone = phone
	u.UpdatedAt = p.now()

	err = p.store.UpdateUser(ctx, id, map[string]any{
		"display_name": u.DisplayName,
		"national_id":  u.NationalID,
		"phone":        u.Phone,
		"updated_at":   u.UpdatedAt,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return u, nil
}

// SyncVerification copies a verified session into the profile. It never
// flips a verified profile back.
func (p *Profiles) SyncVerification(ctx context.Context, s *auth.Session) error {
	if s == nil || !s.EmailVerified {
		return nil
	}

	u, err := p.Get(ctx, s.ID)
	if err != nil {
		return err
	}

	if u.EmailVerified {
		return nil
	}

	return storeErr(p.store.UpdateUser(ctx, s.ID, map[string]any{
		"email_verified": true,
		"updated_at":     p.now(),
	}))
}

// OnSessionChange is registered with the identity provider
func (p *Profiles) OnSessionChange(ctx context.Context, ev auth.SessionEvent) {
	if err := p.SyncVerification(ctx, ev.Session); err != nil && !errors.Is(err, ErrNotFound) {
		zap.L().Error("Failed to sync verification status", zap.Error(err), zap.String("userID", ev.Session.ID))
	}
}

// CheckProfile validates profile fields without touching the store, so
// registration can fail before an account exists
func CheckProfile(displayName, nationalID string) error {
	_, _, err := checkProfile(displayName, nationalID)
	return err
}

func checkProfile(displayName, nationalID string) (string, string, error) {
	displayName = validators.SanitizeInput(displayName)
	if len(displayName) > maxDisplayNameLength {
		return "", "", validation("display name is too long")
	}

	if nationalID != "" {
		if !validators.ValidateNationalID(nationalID) {
			return "", "", validation("national ID must be exactly 12 digits")
		}

		nationalID = validators.NormalizeNationalID(nationalID)
	}

	return displayName, nationalID, nil
}
