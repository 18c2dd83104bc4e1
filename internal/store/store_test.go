package store_test

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/internal/testutil"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *store.Store, owner string, n int) []model.Document {
	t.Helper()

	docs := make([]model.Document, 0, n)
	for i := range n {
		d := model.Document{
			ID:        fmt.Sprintf("%s-doc-%02d", owner, i),
			OwnerID:   owner,
			Title:     fmt.Sprintf("Document %02d", i),
			Category:  model.CategoryEducation,
			FileSize:  int64(100 * (i + 1)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateDocument(context.Background(), &d))
		docs = append(docs, d)
	}

	return docs
}

func TestGetDocumentNotFound(t *testing.T) {
	s := store.New(testutil.NewDB(t))

	_, err := s.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAndDeleteMissingDocument(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateDocument(ctx, "missing", map[string]any{"title": "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteDocument(ctx, "missing"), store.ErrNotFound)
}

func TestQueryDocumentsKeysetPaging(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	seed(t, s, "alice", 5)
	seed(t, s, "bob", 2)

	q := store.DocumentQuery{OwnerID: "alice", SortColumn: store.ColumnCreatedAt, Descending: true, Limit: 2}

	var seen []string
	for {
		page, err := s.QueryDocuments(ctx, q)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}

		for _, d := range page {
			assert.Equal(t, "alice", d.OwnerID)
			seen = append(seen, d.ID)
		}

		q.After = &page[len(page)-1]
	}

	assert.Equal(t, []string{
		"alice-doc-04", "alice-doc-03", "alice-doc-02", "alice-doc-01", "alice-doc-00",
	}, seen)
}

func TestQueryDocumentsTiesBreakOnID(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.CreateDocument(ctx, &model.Document{
			ID: id, OwnerID: "alice", Title: "same", Category: model.CategoryOthers, CreatedAt: base,
		}))
	}

	q := store.DocumentQuery{OwnerID: "alice", SortColumn: store.ColumnTitle, Limit: 1}

	var seen []string
	for range 3 {
		page, err := s.QueryDocuments(ctx, q)
		require.NoError(t, err)
		require.Len(t, page, 1)

		seen = append(seen, page[0].ID)
		q.After = &page[0]
	}

	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestQueryDocumentsCategoryFilter(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	seed(t, s, "alice", 2)
	require.NoError(t, s.CreateDocument(ctx, &model.Document{
		ID: "med", OwnerID: "alice", Title: "Blood test", Category: model.CategoryHealthcare, CreatedAt: base,
	}))

	docs, err := s.QueryDocuments(ctx, store.DocumentQuery{OwnerID: "alice", Category: model.CategoryHealthcare})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "med", docs[0].ID)
}

func TestIncrementIsAtomic(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	seed(t, s, "alice", 1)

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Increment(ctx, &model.Document{}, "alice-doc-00", "view_count", 1, nil))
		}()
	}
	wg.Wait()

	d, err := s.GetDocument(ctx, "alice-doc-00")
	require.NoError(t, err)
	assert.EqualValues(t, 25, d.ViewCount)
}

func TestIncrementMissingRow(t *testing.T) {
	s := store.New(testutil.NewDB(t))

	err := s.Increment(context.Background(), &model.User{}, "nobody", "document_count", 1, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateDocument(ctx, &model.Document{ID: "tmp", OwnerID: "alice", Title: "t", Category: model.CategoryOthers}); err != nil {
			return err
		}

		return tx.Increment(ctx, &model.User{}, "nobody", "document_count", 1, nil)
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetDocument(ctx, "tmp")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = s.QueryDocuments(context.Background(), store.DocumentQuery{OwnerID: "alice"})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestListUsersNewestFirst(t *testing.T) {
	s := store.New(testutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "old", Role: model.RoleUser, CreatedAt: base}))
	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "new", Role: model.RoleUser, CreatedAt: base.Add(time.Hour)}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "new", users[0].ID)
}
