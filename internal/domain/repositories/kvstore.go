package repositories

import "context"

// KVStore is the durable string key-value store snapshots are written to.
// Put replaces any prior value under the key.
type KVStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Put writes the value, overwriting any previous one
	Put(ctx context.Context, key, value string) error

	// Close releases backend resources
	Close() error
}
