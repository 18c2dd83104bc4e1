package service_test

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const origin = "https://docs.example.com"

var start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	db        *gorm.DB
	store     *store.Store
	clock     *testutil.Clock
	documents *service.Documents
	sharing   *service.Sharing
	profiles  *service.Profiles
	admin     *service.Admin
	contacts  *service.Contacts
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	clock := testutil.NewClock(start)

	return &env{
		db:        gdb,
		store:     s,
		clock:     clock,
		documents: service.NewDocuments(s, clock.Now),
		sharing:   service.NewSharing(s, origin, clock.Now),
		profiles:  service.NewProfiles(s, clock.Now),
		admin:     service.NewAdmin(s, clock.Now),
		contacts:  service.NewContacts(s, clock.Now),
	}
}

func (e *env) user(t *testing.T, id, name string) *model.User {
	t.Helper()

	u := &model.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: name,
		Role:        model.RoleUser,
		IsActive:    true,
		CreatedAt:   e.clock.Now(),
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))

	return u
}

func (e *env) document(t *testing.T, ownerID, title string) *model.Document {
	t.Helper()

	d, err := e.documents.Create(context.Background(), ownerID, service.NewDocument{
		Title:        title,
		Category:     model.CategoryGovernment,
		DocumentType: "passport",
		MediaURL:     "https://cdn.test/upload/test/government-ids/" + title + ".png",
		MediaID:      "test/government-ids/" + title + ".png",
		FileSize:     1024,
		MimeType:     "image/png",
	})
	require.NoError(t, err)

	return d
}

func (e *env) reload(t *testing.T, id string) *model.Document {
	t.Helper()

	d, err := e.store.GetDocument(context.Background(), id)
	require.NoError(t, err)

	return d
}
