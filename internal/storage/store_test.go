package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStores builds one of each backend over temp state so the contract
// tests below run against all implementations
func openStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_SetGet(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("session:abc", []byte(`{"id":"abc"}`)))

			data, ok, err := store.Get("session:abc")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"id":"abc"}`, string(data))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := store.Get("nope")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, data)
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("k", []byte("one")))
			require.NoError(t, store.Set("k", []byte("two")))

			data, ok, err := store.Get("k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "two", string(data))
		})
	}
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, store.Remove("never-existed"))
		})
	}
}

func TestStore_Remove(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("k", []byte("v")))
			require.NoError(t, store.Remove("k"))

			_, ok, err := store.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_ListByPrefix(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("session:b", []byte("1")))
			require.NoError(t, store.Set("session:a", []byte("2")))
			require.NoError(t, store.Set("usage:ledger", []byte("3")))

			keys, err := store.List("session:")
			require.NoError(t, err)
			assert.Equal(t, []string{"session:a", "session:b"}, keys)
		})
	}
}

func TestFileStore_KeySanitization(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("session:with/slash", []byte("v")))

	data, ok, err := store.Get("session:with/slash")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(data))

	// The round trip through the file name must preserve the namespace
	keys, err := store.List("session:")
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("persisted")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	data, ok, err := reopened.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(data))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	defer reopened.Close()

	data, ok, err := reopened.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(data))
}
