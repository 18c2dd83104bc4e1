package service_test

import (
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s := &auth.Session{ID: "alice", Email: "alice@example.com"}

	u, err := e.profiles.Create(ctx, s, " Alice ", "1234 5678 9012")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, "123456789012", u.NationalID)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Zero(t, u.DocumentCount)
	assert.False(t, u.EmailVerified)

	_, err = e.profiles.Create(ctx, &auth.Session{ID: "bob"}, "Bob", "12345")
	assert.ErrorIs(t, err, service.ErrValidation)

	name := "Alice A."
	u, err = e.profiles.Update(ctx, "alice", service.ProfilePatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, u.DisplayName)
	assert.Equal(t, "123456789012", u.NationalID)

	bad := "abc"
	_, err = e.profiles.Update(ctx, "alice", service.ProfilePatch{NationalID: &bad})
	assert.ErrorIs(t, err, service.ErrValidation)

	phone := "+91 98765 43210"
	u, err = e.profiles.Update(ctx, "alice", service.ProfilePatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, name, u.DisplayName)

	bad = "12-34"
	_, err = e.profiles.Update(ctx, "alice", service.ProfilePatch{Phone: &bad})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = e.profiles.Update(ctx, "nobody", service.ProfilePatch{DisplayName: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSyncVerification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s := &auth.Session{ID: "alice", Email: "alice@example.com"}
	_, err := e.profiles.Create(ctx, s, "Alice", "")
	require.NoError(t, err)

	require.NoError(t, e.profiles.SyncVerification(ctx, s))
	u, err := e.profiles.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, u.EmailVerified)

	s.EmailVerified = true
	e.profiles.OnSessionChange(ctx, auth.SessionEvent{Type: auth.EventVerified, Session: s})

	u, err = e.profiles.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	// Sessions of accounts without a profile are ignored
	e.profiles.OnSessionChange(ctx, auth.SessionEvent{Type: auth.EventSignedIn, Session: &auth.Session{ID: "ghost", EmailVerified: true}})
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, model.Capabilities{}, model.RoleUser.Capabilities())
	assert.Equal(t, model.Capabilities{CanManageUsers: true}, model.RoleAdmin.Capabilities())
	assert.Equal(t, model.Capabilities{CanManageUsers: true, CanPromoteOwner: true}, model.RoleOwner.Capabilities())
	assert.Equal(t, model.Capabilities{}, model.Role("root").Capabilities())
}

func TestUpdateRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "bob", "Bob")

	_, err := e.admin.UpdateRole(ctx, model.RoleUser, "bob", model.RoleAdmin)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	u, err := e.admin.UpdateRole(ctx, model.RoleAdmin, "bob", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, err = e.admin.UpdateRole(ctx, model.RoleAdmin, "bob", model.RoleOwner)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = e.admin.UpdateRole(ctx, model.RoleOwner, "bob", model.RoleOwner)
	require.NoError(t, err)

	_, err = e.admin.UpdateRole(ctx, model.RoleAdmin, "bob", model.RoleUser)
	assert.ErrorIs(t, err, service.ErrAccessDenied, "admins can't demote owners")

	_, err = e.admin.UpdateRole(ctx, model.RoleOwner, "bob", "root")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = e.admin.UpdateRole(ctx, model.RoleOwner, "nobody", model.RoleUser)
	assert.ErrorIs(t, err, service.ErrNotFound)

	stored, err := e.profiles.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, stored.Role)
}

func TestContacts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.contacts.Submit(ctx, service.ContactForm{Name: " ", Email: "a@b.co", Subject: "s", Message: "m"}, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = e.contacts.Submit(ctx, service.ContactForm{Name: "A", Email: "nope", Subject: "s", Message: "m"}, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	c, err := e.contacts.Submit(ctx, service.ContactForm{Name: " Ann ", Email: "ann@example.com", Subject: "Hi", Message: " hello "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "hello", c.Message)
	assert.Nil(t, c.UserID)

	uid := "alice"
	e.clock.Advance(1)
	_, err = e.contacts.Submit(ctx, service.ContactForm{Name: "Alice", Email: "alice@example.com", Subject: "Bug", Message: "x"}, &uid)
	require.NoError(t, err)

	all, err := e.admin.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
}

func TestListUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "first", "First")
	e.clock.Advance(1)
	e.user(t, "second", "Second")

	users, err := e.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "second", users[0].ID)
}
