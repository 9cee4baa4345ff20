// Package metadata persists durable sync state as a small key/value table,
// plus a typed facade exposing it as a models.SyncMetadata record.
package metadata

import "context"

// Repository is a generic key/value store for sync bookkeeping.
type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts a value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key; absent keys are ignored.
	Delete(ctx context.Context, key string) error

	// List returns every key/value pair.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear removes every key.
	Clear(ctx context.Context) error
}
