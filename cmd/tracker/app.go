package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/config"
	"tracker-backend/pkg/logger"
	"tracker-backend/pkg/telemetry"
)

type App struct {
	server  *http.Server
	store   types.Store
	tracing *telemetry.Provider
	logger  *logger.Logger
}

func NewApp(handler http.Handler, store types.Store, tracing *telemetry.Provider, cfg *config.ServerConfig, logger *logger.Logger) *App {
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: handler,
	}

	return &App{
		server:  server,
		store:   store,
		tracing: tracing,
		logger:  logger,
	}
}

// Run serves until Stop is called.
func (a *App) Run() error {
	log := a.logger.GetLogger("app")
	log.Info().
		Str("address", a.server.Addr).
		Msg("Starting server")

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve runs the server until ctx is done or it fails, then stops it
// within timeout.
func (a *App) Serve(ctx context.Context, timeout time.Duration) error {
	log := a.logger.GetLogger("app")

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if stopErr := a.Stop(stopCtx); err == nil {
		err = stopErr
	}
	return err
}

// Stop 优雅关闭 HTTP 服务器，然后关闭存储并刷新追踪数据
func (a *App) Stop(ctx context.Context) error {
	log := a.logger.GetLogger("app")

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing store")
		errs = append(errs, err)
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error flushing traces")
		errs = append(errs, err)
	}

	log.Info().Msg("Server stopped")
	return errors.Join(errs...)
}
