package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLite keeps snapshots in a single-file database.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens (creating when needed) the database at path and ensures the schema.
func NewSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	logger.Info("opened sqlite snapshot store", zap.String("path", path))
	return &SQLite{DB: db}, nil
}

func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite database not configured")
	}
	return s.DB.PingContext(ctx)
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLite) Save(ctx context.Context, key string, payload []byte) error {
	const query = `
        INSERT INTO snapshots (key, payload, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

	if _, err := s.DB.ExecContext(ctx, query, key, string(payload)); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}
