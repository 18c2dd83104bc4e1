package service

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"context"
	"time"
)

type Admin struct {
	store *store.Store
	now   func() time.Time
}

func NewAdmin(s *store.Store, now func() time.Time) *Admin {
	if now == nil {
		now = time.Now
	}

	return &Admin{
		store: s,
		now:   func() time.Time { return now().UTC() },
	}
}

func (a *Admin) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	return users, nil
}

func (a *Admin) ListContacts(ctx context.Context) ([]model.Contact, error) {
	contacts, err := a.store.ListContacts(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	return contacts, nil
}

// UpdateRole changes the role of targetID on behalf of an actor holding actorRole
func (a *Admin) UpdateRole(ctx context.Context, actorRole model.Role, targetID string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, validation("invalid role %q", role)
	}

	caps := actorRole.Capabilities()
	if !caps.CanManageUsers {
		return nil, ErrAccessDenied
	}

	u, err := a.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, storeErr(err)
	}

	// Granting or taking away owner both need the owner capability
	if (role == model.RoleOwner || u.Role == model.RoleOwner) && !caps.CanPromoteOwner {
		return nil, ErrAccessDenied
	}

	u.Role = role
	u.UpdatedAt = a.now()

	err = a.store.UpdateUser(ctx, targetID, map[string]any{
		"role":       u.Role,
		"updated_at": u.UpdatedAt,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return u, nil
}
