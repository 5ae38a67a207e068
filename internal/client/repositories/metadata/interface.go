// Package metadata provides the durable key/value cache that keeps the
// session alive across restarts. Two backends exist: SQLite (default) and
// Redis.
package metadata

import (
	"context"
)

// Repository is a small byte-oriented key/value store.
//
// Get returns (nil, nil) for a missing key. SetAll and Delete apply all keys
// or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
