package service_test

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertShareInvariant(t *testing.T, d *model.Document) {
	t.Helper()

	if !d.ShareEnabled {
		assert.Nil(t, d.PublicShareURL)
		assert.Nil(t, d.QRCodeData)
	}
}

func TestEnableSharing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")
	assertShareInvariant(t, e.reload(t, d.ID))

	e.clock.Advance(time.Minute)

	shared, err := e.sharing.Enable(ctx, d.ID, "alice", 0)
	require.NoError(t, err)

	stored := e.reload(t, d.ID)
	assert.True(t, stored.ShareEnabled)
	assert.Nil(t, stored.ShareExpiry)
	require.NotNil(t, stored.PublicShareURL)
	assert.Equal(t, origin+"/shared/"+d.ID, *stored.PublicShareURL)
	assert.Equal(t, *stored.PublicShareURL, *stored.QRCodeData)
	assert.True(t, stored.UpdatedAt.Equal(start.Add(time.Minute)))
	assert.Equal(t, *shared.PublicShareURL, *stored.PublicShareURL)

	// Enabling again only recomputes the expiry
	_, err = e.sharing.Enable(ctx, d.ID, "alice", 24)
	require.NoError(t, err)

	stored = e.reload(t, d.ID)
	require.NotNil(t, stored.ShareExpiry)
	assert.True(t, stored.ShareExpiry.Equal(start.Add(time.Minute+24*time.Hour)))

	var logs []model.AccessLog
	require.NoError(t, e.db.Where("document_id = ?", d.ID).Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ShareActionEnabled, logs[0].Action)
	require.NotNil(t, logs[0].ActorID)
	assert.Equal(t, "alice", *logs[0].ActorID)
}

func TestEnableSharingChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "mallory", 0)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = e.sharing.Enable(ctx, "missing", "alice", 0)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = e.sharing.Enable(ctx, d.ID, "alice", -1)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = e.sharing.Disable(ctx, d.ID, "mallory")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	assertShareInvariant(t, e.reload(t, d.ID))
	assert.False(t, e.reload(t, d.ID).ShareEnabled)
}

func TestDisableSharingClearsLink(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "alice", 1)
	require.NoError(t, err)

	got, err := e.sharing.Disable(ctx, d.ID, "alice")
	require.NoError(t, err)
	assertShareInvariant(t, got)

	stored := e.reload(t, d.ID)
	assert.False(t, stored.ShareEnabled)
	assert.Nil(t, stored.ShareExpiry)
	assertShareInvariant(t, stored)

	_, err = e.sharing.View(ctx, d.ID)
	assert.ErrorIs(t, err, service.ErrShareUnavailable)
}

func TestViewCountsExactlyOnce(t *testing.T) {
	e := newEnv(t)
	ctx := service.WithClientContext(context.Background(), "test-agent/1.0")

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "alice", 0)
	require.NoError(t, err)

	pub, err := e.sharing.View(ctx, d.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pub.ViewCount)
	assert.EqualValues(t, 1, e.reload(t, d.ID).ViewCount)

	assert.Equal(t, "Alice", pub.SharedBy.DisplayName)
	assert.Equal(t, "passport", pub.Title)
	assert.Contains(t, pub.ThumbnailURL, "/upload/w_200,h_200")
	assert.Contains(t, pub.OptimizedURL, "/upload/q_auto:good,f_auto/")

	var log model.AccessLog
	require.NoError(t, e.db.Where("action = ?", model.ShareActionViewed).First(&log).Error)
	assert.Nil(t, log.ActorID)
	assert.Equal(t, "test-agent/1.0", log.ClientContext)

	// Owner reads never count
	_, err = e.documents.Get(ctx, d.ID, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.reload(t, d.ID).ViewCount)
}

func TestConcurrentViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "alice", 0)
	require.NoError(t, err)

	const n = 20

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := e.sharing.View(ctx, d.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, n, e.reload(t, d.ID).ViewCount)
}

func TestViewAfterExpiry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "alice", 1)
	require.NoError(t, err)

	// The exact expiry instant is still valid
	e.clock.Advance(time.Hour)
	_, err = e.sharing.View(ctx, d.ID)
	require.NoError(t, err)

	e.clock.Advance(time.Nanosecond)
	_, err = e.sharing.View(ctx, d.ID)
	assert.ErrorIs(t, err, service.ErrShareUnavailable)

	stored := e.reload(t, d.ID)
	assert.True(t, stored.ShareEnabled, "expiry must not flip the flag")
	assert.Equal(t, service.ShareStatusExpired, e.sharing.Status(stored))
	assert.EqualValues(t, 1, stored.ViewCount)

	_, err = e.sharing.Disable(ctx, d.ID, "alice")
	require.NoError(t, err)

	_, err = e.sharing.Enable(ctx, d.ID, "alice", 0)
	require.NoError(t, err)

	_, err = e.sharing.View(ctx, d.ID)
	assert.NoError(t, err)
	assert.Equal(t, service.ShareStatusShared, e.sharing.Status(e.reload(t, d.ID)))
}

func TestViewDenialsLookTheSame(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "Alice")
	private := e.document(t, "alice", "private")
	expired := e.document(t, "alice", "expired")

	_, err := e.sharing.Enable(ctx, expired.ID, "alice", 1)
	require.NoError(t, err)
	e.clock.Advance(2 * time.Hour)

	_, errMissing := e.sharing.View(ctx, "missing")
	_, errPrivate := e.sharing.View(ctx, private.ID)
	_, errExpired := e.sharing.View(ctx, expired.ID)

	for _, err := range []error{errMissing, errPrivate, errExpired} {
		assert.ErrorIs(t, err, service.ErrShareUnavailable)
		assert.Equal(t, service.ErrShareUnavailable.Error(), err.Error())
	}
}

func TestViewWithoutDisplayName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.user(t, "alice", "")
	d := e.document(t, "alice", "passport")

	_, err := e.sharing.Enable(ctx, d.ID, "alice", 0)
	require.NoError(t, err)

	pub, err := e.sharing.View(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", pub.SharedBy.DisplayName)
}

func TestStatus(t *testing.T) {
	exp := start.Add(time.Hour)

	assert.Equal(t, service.ShareStatusPrivate, service.Status(&model.Document{}, start))
	assert.Equal(t, service.ShareStatusShared, service.Status(&model.Document{ShareEnabled: true}, start))
	assert.Equal(t, service.ShareStatusShared, service.Status(&model.Document{ShareEnabled: true, ShareExpiry: &exp}, exp))
	assert.Equal(t, service.ShareStatusExpired, service.Status(&model.Document{ShareEnabled: true, ShareExpiry: &exp}, exp.Add(time.Second)))
	assert.Equal(t, service.ShareStatusPrivate, service.Status(&model.Document{ShareExpiry: &exp}, exp.Add(time.Second)))
}

func TestShareURLRoundTrip(t *testing.T) {
	for _, id := range []string{"a1B2c3D4e5F6g7H8", "with space", "slash/inside", "ünïcode", "q?x#y", "semi;colon"} {
		got, err := service.ParseDocumentID(service.GenerateShareURL(origin, id))
		require.NoError(t, err, id)
		assert.Equal(t, id, got)
	}

	assert.Equal(t, origin+"/shared/abc", service.GenerateShareURL(origin+"/", "abc"))

	for _, raw := range []string{"https://docs.example.com/documents/abc", "https://docs.example.com/shared/", "::"} {
		_, err := service.ParseDocumentID(raw)
		assert.ErrorIs(t, err, service.ErrInvalidShareURL, raw)
	}
}
