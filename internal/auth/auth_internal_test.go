package auth

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAccountRejectsTakenEmail(t *testing.T) {
	gdb := testutil.NewDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, insertAccount(gdb, &model.Account{ID: "a1", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now}))

	err := insertAccount(gdb, &model.Account{ID: "a2", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// A sign up that raced past the check hits the unique index instead
	err = createAccount(gdb, &model.Account{ID: "a3", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
