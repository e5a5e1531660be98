package persistence

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when no snapshot has been saved under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists opaque JSON snapshots of a store's collection.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
