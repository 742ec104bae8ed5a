package storage

// Store is a namespaced key-value store over string keys. The browser
// origin of this design persisted one serialized blob per key; every
// implementation here keeps that contract so business logic stays
// backend-agnostic.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key does not exist.
	Get(key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(key string, value []byte) error
	// Remove deletes the key. Removing a missing key is not an error.
	Remove(key string) error
	// List returns all keys with the given prefix.
	List(prefix string) ([]string, error)
	// Close releases any underlying resources.
	Close() error
}
