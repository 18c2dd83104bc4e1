// Package testutil holds helpers shared by tests across packages
package testutil

import (
	"bitwise74/docvault-api/db"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database that lives as long as the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// Every connection to :memory: is a separate database, so keep exactly one
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { sqlDB.Close() })

	return gdb
}
