package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, kv KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	got, err := kv.Get(ctx, "favorite_stations")
	require.NoError(t, err)
	assert.Nil(t, got, "missing key reads as nil")

	require.NoError(t, kv.Put(ctx, "favorite_stations", []byte(`["a"]`)))
	got, err = kv.Get(ctx, "favorite_stations")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), got)

	require.NoError(t, kv.Put(ctx, "favorite_stations", []byte(`["a","b"]`)))
	got, err = kv.Get(ctx, "favorite_stations")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a","b"]`), got)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "favorites.db")

	kv, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, kv)
	require.NoError(t, kv.Close())

	// reopen and read back
	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "favorite_stations")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a","b"]`), got)
}

func TestNewPostgresStoreRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewPostgresStore(context.Background(), "")
	assert.Error(t, err)
}
