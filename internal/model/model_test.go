package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	d := &Document{ShareEnabled: true, ShareExpiry: &expiry}

	assert.True(t, d.SharedAt(now))
	assert.True(t, d.SharedAt(expiry), "the expiry instant itself is still valid")
	assert.False(t, d.SharedAt(expiry.Add(time.Nanosecond)))
	assert.True(t, d.Expired(expiry.Add(time.Second)))

	d.ShareExpiry = nil
	assert.True(t, d.SharedAt(now.Add(24*365*time.Hour)))

	d.ShareEnabled = false
	assert.False(t, d.SharedAt(now))
	assert.False(t, d.Expired(now))
}

func TestStats(t *testing.T) {
	s := NewStats()
	require.Len(t, s.CategoryStats, len(Categories))

	s.Add(&Document{Category: CategoryHealthcare, FileSize: 100, ViewCount: 3, ShareEnabled: true})
	s.Add(&Document{Category: CategoryHealthcare, FileSize: 50})
	s.Add(&Document{Category: "legacy", FileSize: 10})

	assert.Equal(t, 3, s.TotalDocuments)
	assert.Equal(t, 1, s.SharedDocuments)
	assert.EqualValues(t, 3, s.TotalViews)
	assert.EqualValues(t, 160, s.TotalStorageBytes)
	assert.Equal(t, 2, s.CategoryStats[CategoryHealthcare])
	assert.Equal(t, 0, s.CategoryStats[CategoryOthers])
	assert.NotContains(t, s.CategoryStats, Category("legacy"))
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, Capabilities{}, RoleUser.Capabilities())
	assert.Equal(t, Capabilities{CanManageUsers: true}, RoleAdmin.Capabilities())
	assert.Equal(t, Capabilities{CanManageUsers: true, CanPromoteOwner: true}, RoleOwner.Capabilities())
	assert.Equal(t, Capabilities{}, Role("root").Capabilities())

	assert.True(t, RoleOwner.Valid())
	assert.False(t, Role("").Valid())
}

func TestCategories(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid())
		assert.NotEmpty(t, DocumentTypes[c], c)
	}

	assert.False(t, Category("pets").Valid())
	assert.True(t, CategoryTransportation.Accepts("insurance"))
	assert.False(t, CategoryEducation.Accepts("passport"))
}

func TestStringSlice(t *testing.T) {
	v, err := StringSlice{"a", "b,c"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b,c"]`, v)

	v, err = StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	var s StringSlice
	require.NoError(t, s.Scan([]byte(`["x","y,z"]`)))
	assert.Equal(t, StringSlice{"x", "y,z"}, s)

	require.NoError(t, s.Scan("legacy,row"))
	assert.Equal(t, StringSlice{"legacy", "row"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
	assert.Error(t, s.Scan("[broken"))

	assert.True(t, StringSlice{"Travel"}.ContainsFold("trav"))
}
