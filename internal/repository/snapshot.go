package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/propdesk/maintenance-service/internal/persistence"
)

// ErrNotFound is returned when an entry is absent from the current snapshot.
var ErrNotFound = errors.New("not found")

// ErrPersist wraps failures to write a snapshot through to the backend.
var ErrPersist = errors.New("persist snapshot")

// snapshot holds an immutable collection that is replaced wholesale on every
// mutation. Readers load the current slice without locking; writers are
// serialized and never modify a published slice.
type snapshot[T any] struct {
	mu      sync.Mutex
	current atomic.Pointer[[]T]
	store   persistence.SnapshotStore
	key     string
}

func newSnapshot[T any](ctx context.Context, store persistence.SnapshotStore, key string) (*snapshot[T], error) {
	s := &snapshot[T]{store: store, key: key}
	items := []T{}

	if store != nil {
		payload, err := store.Load(ctx, key)
		switch {
		case errors.Is(err, persistence.ErrSnapshotNotFound):
		case err != nil:
			return nil, err
		default:
			if err := json.Unmarshal(payload, &items); err != nil {
				return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
			}
		}
	}

	s.current.Store(&items)
	return s, nil
}

func (s *snapshot[T]) load() []T {
	return *s.current.Load()
}

// apply runs fn against the current collection and publishes its result.
// The new collection is persisted before it becomes visible.
func (s *snapshot[T]) apply(ctx context.Context, fn func(current []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.load())
	if err != nil {
		return err
	}

	if s.store != nil {
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", ErrPersist, s.key, err)
		}
		if err := s.store.Save(ctx, s.key, payload); err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}

	s.current.Store(&next)
	return nil
}
