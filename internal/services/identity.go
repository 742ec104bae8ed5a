package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/storage"
)

const identityKey = "identity:user"

// LoadOrCreateIdentity returns the persisted demo identity, creating one on
// first boot. RunID is regenerated on every call so each process run is
// distinguishable while UserID stays stable across restarts.
func LoadOrCreateIdentity(store storage.Store) (*models.Identity, error) {
	raw, ok, err := store.Get(identityKey)
	if err != nil {
		return nil, err
	}

	var identity models.Identity
	if ok {
		if err := json.Unmarshal(raw, &identity); err == nil && identity.UserID != "" {
			identity.RunID = uuid.NewString()
			return &identity, nil
		}
		// Corrupt record: fall through and mint a fresh one
	}

	identity = models.Identity{
		UserID:    uuid.NewString(),
		RunID:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return nil, err
	}
	if err := store.Set(identityKey, data); err != nil {
		return nil, err
	}
	return &identity, nil
}
