// Package kvstore defines the durable key-value store abstraction the whole
// system persists through. The contract is deliberately narrow: get, set,
// delete and prefix-scan over opaque JSON documents. There are no multi-key
// transactions and no locks — cross-entity consistency is the responsibility
// of the service layer, which orders its writes so that a crash between two
// writes always leaves the least harmful state.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when the key does not exist.
	ErrKeyNotFound = errors.New("kvstore: key not found")

	// ErrVersionConflict is returned by SetVersioned when the stored
	// document's version does not match the expected one.
	ErrVersionConflict = errors.New("kvstore: version conflict")
)

// Store is the minimal contract every backend must satisfy.
// Values are complete JSON documents; keys follow the "<kind>:<id>" scheme.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetVersioned writes value only if the currently stored document's
	// top-level "version" field equals expected. expected == 0 means the key
	// must not exist yet. This is the optimistic-concurrency primitive for
	// read-modify-write sequences on mutable entities (Product, Customer).
	SetVersioned(ctx context.Context, key string, value []byte, expected int64) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Scan returns the values of every key starting with prefix.
	// Order is unspecified; callers sort.
	Scan(ctx context.Context, prefix string) ([][]byte, error)
}

// DocVersion extracts the top-level "version" field from a stored JSON
// document. Documents without the field report version 0.
func DocVersion(value []byte) (int64, error) {
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(value, &v); err != nil {
		return 0, err
	}
	return v.Version, nil
}
