package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tracker-backend/internal/store/memory"
	"tracker-backend/pkg/config"
	"tracker-backend/pkg/logger"
	"tracker-backend/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideStoreConfig(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Storage.Type = "redis"
	cfg.Storage.Redis.URL = "redis://localhost:6379/2"
	cfg.Storage.Postgres.DSN = "postgres://u:p@db/tracker"

	got := provideStoreConfig(cfg)
	assert.Equal(t, "redis", got.Type)
	assert.Equal(t, "redis://localhost:6379/2", got.Redis.URL)
	assert.Equal(t, "tracker", got.Redis.Prefix)
	assert.Equal(t, "postgres://u:p@db/tracker", got.Postgres.DSN)
	assert.Equal(t, cfg.Storage.SQLite.Path, got.SQLite.Path)
}

func TestInitializeAppSeedsMemoryStore(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Storage.Type = "memory"
	cfg.Log.Debug = true

	app, err := InitializeApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.store.Close() })

	n, err := app.store.CountTasks(context.Background())
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestAppStop(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	tracing, err := telemetry.NewProvider(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	app := NewApp(http.NotFoundHandler(), memory.NewStore(), tracing, cfg, logger.Nop())
	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, app.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestAppServeStopsOnCancel(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	tracing, err := telemetry.NewProvider(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	app := NewApp(http.NotFoundHandler(), memory.NewStore(), tracing, cfg, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, time.Second) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "seed", "probe"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
