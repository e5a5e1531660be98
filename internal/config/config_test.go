package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "REDIS_DB", "WORKFLOW_STRICT", "NOTIFY_TICKET_EVENTS", "APP_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "maintenance", cfg.Store.SnapshotPrefix)
	assert.False(t, cfg.Workflow.Strict)
	assert.True(t, cfg.Notify.TicketEvents)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/m.db")
	t.Setenv("WORKFLOW_STRICT", "true")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/m.db", cfg.SQLite.Path)
	assert.True(t, cfg.Workflow.Strict)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.EqualValues(t, 10, cfg.Postgres.MaxConns)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "cassandra")
		_, err := Load()
		assert.ErrorContains(t, err, "STORE_BACKEND")
	})

	t.Run("redis db", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "")
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_DB")
	})
}
