package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/config"
)

// Backend is an opened snapshot backend. Store is nil for the memory
// backend, which keeps nothing across restarts.
type Backend struct {
	Name  string
	Store SnapshotStore
	close func()
}

// Pingers returns the backend keyed by name for readiness checks.
func (b *Backend) Pingers() map[string]Pinger {
	p, ok := b.Store.(Pinger)
	if !ok {
		return map[string]Pinger{}
	}
	return map[string]Pinger{b.Name: p}
}

// Close releases the backend connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		logger.Info("snapshot persistence disabled")
		return &Backend{Name: config.BackendMemory}, nil
	case config.BackendRedis:
		r, err := NewRedis(cfg.Redis, cfg.Store.SnapshotPrefix, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: config.BackendRedis, Store: r, close: r.Close}, nil
	case config.BackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Backend{Name: config.BackendPostgres, Store: pg, close: pg.Close}, nil
	case config.BackendSQLite:
		db, err := NewSQLite(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: config.BackendSQLite, Store: db, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
