package favorites

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/store"
)

type failingStore struct {
	store.KeyValueStore
	failPut bool
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.KeyValueStore.Put(ctx, key, value)
}

func station(id string) models.Station {
	return models.Station{ID: id, Name: "Station " + id, Lake: "Zürichsee"}
}

func ids(stations []models.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}

func newStore(t *testing.T, kv store.KeyValueStore, initial ...string) *Store {
	t.Helper()
	s, err := New(context.Background(), kv, "")
	require.NoError(t, err)
	for _, id := range initial {
		res, err := s.Toggle(context.Background(), station(id))
		require.NoError(t, err)
		require.Equal(t, Added, res)
	}
	return s
}

func TestToggle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStore(t, store.NewMemoryStore(), "a", "b", "c", "d")

	res, err := s.Toggle(ctx, station("e"))
	require.NoError(t, err)
	assert.Equal(t, Added, res)

	res, err = s.Toggle(ctx, station("f"))
	require.NoError(t, err)
	assert.Equal(t, MaxReached, res)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(s.List()))
	assert.False(t, s.IsFavorite("f"))

	res, err = s.Toggle(ctx, station("b"))
	require.NoError(t, err)
	assert.Equal(t, Removed, res)
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids(s.List()))

	res, err = s.Toggle(ctx, station("f"))
	require.NoError(t, err)
	assert.Equal(t, Added, res)
	assert.True(t, s.IsFavorite("f"))
}

func TestReorder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 1, 1, []string{"a", "b", "c", "d"}},
		{"from out of range", 4, 0, []string{"a", "b", "c", "d"}},
		{"to out of range", 0, -1, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newStore(t, store.NewMemoryStore(), "a", "b", "c", "d")
			require.NoError(t, s.Reorder(context.Background(), tt.from, tt.to))
			assert.Equal(t, tt.want, ids(s.List()))
		})
	}
}

func TestUpdateOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStore(t, store.NewMemoryStore(), "a", "b")

	require.NoError(t, s.UpdateOrder(ctx, []models.Station{station("c"), station("a")}))
	assert.Equal(t, []string{"c", "a"}, ids(s.List()))

	err := s.UpdateOrder(ctx, []models.Station{station("x"), station("x")})
	assert.True(t, errors.Is(err, ErrDuplicate))

	six := make([]models.Station, 6)
	for i := range six {
		six[i] = station(fmt.Sprint(i))
	}
	err = s.UpdateOrder(ctx, six)
	assert.True(t, errors.Is(err, ErrTooMany))
	assert.Equal(t, []string{"c", "a"}, ids(s.List()))
}

func TestPersistenceAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	defer kv.Close()

	s := newStore(t, kv, "a", "b", "c")
	require.NoError(t, s.Reorder(ctx, 2, 0))

	reloaded, err := New(ctx, kv, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(reloaded.List()))
	assert.Equal(t, "Station c", reloaded.List()[0].Name)
}

func TestChangesFromOtherInstancesAreKept(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		change func(t *testing.T, first, second *Store)
		want   []string
	}{
		{
			name: "both add",
			change: func(t *testing.T, first, second *Store) {
				res, err := first.Toggle(ctx, station("a"))
				require.NoError(t, err)
				assert.Equal(t, Added, res)
				res, err = second.Toggle(ctx, station("b"))
				require.NoError(t, err)
				assert.Equal(t, Added, res)
			},
			want: []string{"a", "b"},
		},
		{
			name: "remove what the other added",
			change: func(t *testing.T, first, second *Store) {
				_, err := first.Toggle(ctx, station("a"))
				require.NoError(t, err)
				res, err := second.Toggle(ctx, station("a"))
				require.NoError(t, err)
				assert.Equal(t, Removed, res)
			},
			want: []string{},
		},
		{
			name: "reorder sees the other's additions",
			change: func(t *testing.T, first, second *Store) {
				for _, id := range []string{"a", "b", "c"} {
					_, err := first.Toggle(ctx, station(id))
					require.NoError(t, err)
				}
				require.NoError(t, second.Reorder(ctx, 2, 0))
			},
			want: []string{"c", "a", "b"},
		},
		{
			name: "limit counts the other's entries",
			change: func(t *testing.T, first, second *Store) {
				for _, id := range []string{"a", "b", "c", "d", "e"} {
					_, err := first.Toggle(ctx, station(id))
					require.NoError(t, err)
				}
				res, err := second.Toggle(ctx, station("f"))
				require.NoError(t, err)
				assert.Equal(t, MaxReached, res)
			},
			want: []string{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kv := store.NewMemoryStore()
			first := newStore(t, kv)
			second := newStore(t, kv)

			tt.change(t, first, second)

			assert.Equal(t, tt.want, ids(second.List()))
			require.NoError(t, first.Reload(ctx))
			assert.Equal(t, tt.want, ids(first.List()))
		})
	}
}

func TestFailedWriteRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := &failingStore{KeyValueStore: store.NewMemoryStore()}
	s := newStore(t, kv, "a", "b")
	kv.failPut = true

	_, err := s.Toggle(ctx, station("c"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, s.IsFavorite("c"))

	_, err = s.Toggle(ctx, station("a"))
	require.Error(t, err)
	assert.True(t, s.IsFavorite("a"))

	require.Error(t, s.Reorder(ctx, 0, 1))
	assert.Equal(t, []string{"a", "b"}, ids(s.List()))
}

func TestLoadSanitizesStoredList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte(`[{"id":"a"},{"id":"a"},{"id":"b"},{"id":"c"},{"id":"d"},{"id":"e"},{"id":"f"}]`)))

	s, err := New(ctx, kv, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(s.List()))
}

func TestLoadRejectsCorruptData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte(`not json`)))

	_, err := New(ctx, kv, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding favorites")
}
