package main

import (
	"context"
	"fmt"
	"os"

	"tracker-backend/internal/api"
	"tracker-backend/internal/api/handlers"
	"tracker-backend/internal/seed"
	"tracker-backend/internal/service"
	"tracker-backend/internal/store/factory"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/config"
	"tracker-backend/pkg/logger"
	"tracker-backend/pkg/telemetry"

	"github.com/gin-gonic/gin"
)

func provideConfig(path string) (*config.ServerConfig, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return config.LoadServerConfig(path, root)
}

func provideStoreConfig(cfg *config.ServerConfig) *types.Config {
	return &types.Config{
		Type:     cfg.Storage.Type,
		SQLite:   types.SQLiteConfig(cfg.Storage.SQLite),
		Postgres: types.PostgresConfig(cfg.Storage.Postgres),
		Redis:    types.RedisConfig(cfg.Storage.Redis),
	}
}

func provideLogger(cfg *config.ServerConfig) *logger.Logger {
	return logger.New(cfg.Log.Debug, cfg.Log.File)
}

// provideStore opens the configured backend and seeds it when enabled.
func provideStore(ctx context.Context, cfg *config.ServerConfig, logger *logger.Logger) (types.Store, error) {
	store, err := factory.NewStore(ctx, provideStoreConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if cfg.Seed.Enabled {
		if err := seed.NewSeeder(store, logger).Run(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

func provideRouter(cfg *config.ServerConfig, store types.Store, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(
		cfg,
		handlers.NewTaskHandler(service.NewTaskService(store, logger), logger),
		handlers.NewTeamHandler(service.NewTeamService(store, logger), logger),
		handlers.NewProjectHandler(service.NewProjectService(store, logger), logger),
		handlers.NewWhiteboardHandler(service.NewWhiteboardService(store, logger), logger),
		handlers.NewStatusHandler(service.NewStatusService(store, cfg.Storage.Type, logger), logger),
		logger,
	)
}

func provideTelemetry(ctx context.Context, cfg *config.ServerConfig) (*telemetry.Provider, error) {
	return telemetry.NewProvider(ctx, telemetry.Config(cfg.Telemetry))
}

// InitializeApp 组装服务端依赖
func InitializeApp(ctx context.Context, cfg *config.ServerConfig, logger *logger.Logger) (*App, error) {
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	tracing, err := provideTelemetry(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := provideStore(ctx, cfg, logger)
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, err
	}
	router := provideRouter(cfg, store, logger)
	return NewApp(tracing.Handler(router, "tracker"), store, tracing, cfg, logger), nil
}
