package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/store"
	"github.com/nhle/inspection/tests/testutil"
)

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetItem(context.Background(), "authToken")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_SetGetReplace(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "authToken", "first"))
	require.NoError(t, s.SetItem(ctx, "authToken", "second"))

	got, err := s.GetItem(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSQLiteStore_Remove(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "authToken", "tok"))
	require.NoError(t, s.RemoveItem(ctx, "authToken"))
	require.NoError(t, s.RemoveItem(ctx, "authToken"), "removing twice is fine")

	_, err := s.GetItem(ctx, "authToken")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "authToken", "persisted"))
	require.NoError(t, s.Close())

	reopened, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetItem(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
