package infra

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/config"
	"github.com/hptracker/backend/internal/store"
)

func TestNew_FileBackend(t *testing.T) {
	cfg := config.Config{Store: config.Store{Backend: config.BackendFile, Path: filepath.Join(t.TempDir(), "c.json")}}

	deps, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &store.FileStore{}, deps.Store)
	assert.Nil(t, deps.SQL)
	assert.Nil(t, deps.Redis)
}

func TestNew_SQLiteBackendMigrates(t *testing.T) {
	cfg := config.Config{Store: config.Store{Backend: config.BackendSQLite, Path: filepath.Join(t.TempDir(), "hp.db")}}

	deps, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	require.IsType(t, &store.SQLStore{}, deps.Store)
	list, err := deps.Store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNew_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{
		Store: config.Store{Backend: config.BackendFile, Path: filepath.Join(t.TempDir(), "c.json")},
		Redis: config.Redis{Addr: mr.Addr()},
	}

	deps, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()
	assert.NotNil(t, deps.Redis)
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Config{
		Store: config.Store{Backend: config.BackendFile, Path: filepath.Join(t.TempDir(), "c.json")},
		Redis: config.Redis{Addr: addr},
	}
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "redis ping")
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.Config{Store: config.Store{Backend: "mongo"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	var i *Infra
	assert.NotPanics(t, i.Close)
}
