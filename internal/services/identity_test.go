package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmalone/crossprep/internal/storage"
)

func TestLoadOrCreateIdentity_StableUserFreshRun(t *testing.T) {
	store := storage.NewMemoryStore()

	first, err := LoadOrCreateIdentity(store)
	require.NoError(t, err)
	assert.NotEmpty(t, first.UserID)
	assert.NotEmpty(t, first.RunID)

	second, err := LoadOrCreateIdentity(store)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID, "user id survives restarts")
	assert.NotEqual(t, first.RunID, second.RunID, "run id is per boot")
}

func TestLoadOrCreateIdentity_RecoversFromCorruptRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(identityKey, []byte("garbage")))

	identity, err := LoadOrCreateIdentity(store)
	require.NoError(t, err)
	assert.NotEmpty(t, identity.UserID)
}
