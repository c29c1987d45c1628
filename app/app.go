// Package app wires configuration, logging and the HTTP server into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/logger"
	"github.com/gaborage/go-helmet/observability"
	"github.com/gaborage/go-helmet/server"
)

const serverErrorMsg = "server: %w"

// App represents the service: a configured server and its lifecycle.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *server.Server
	telemetry observability.Provider
}

// New builds the application. It fails if the security policy cannot be rendered
// or the telemetry exporters cannot be created.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	telemetry, err := observability.NewProvider(&cfg.Observability, &cfg.App)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return nil, err
	}

	log.Info().
		Str("service", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Env).
		Bool("observability", cfg.Observability.Enabled).
		Msg("Application initialized")

	return &App{
		cfg:       cfg,
		logger:    log,
		server:    srv,
		telemetry: telemetry,
	}, nil
}

// Server returns the HTTP server for route registration.
func (a *App) Server() *server.Server {
	return a.server
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the server fails.
// Shutdown is bounded by server.timeout.shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("Server stopped unexpectedly")
			return fmt.Errorf(serverErrorMsg, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("Shutting down application")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(gctx), a.cfg.Server.Timeout.Shutdown)
		defer cancelShutdown()
		return a.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown gracefully stops the HTTP server, then flushes and stops telemetry export.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	start := time.Now()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown server")
		errs = append(errs, fmt.Errorf(serverErrorMsg, err))
	} else {
		a.logger.Info().Dur("duration", time.Since(start)).Msg("HTTP server shutdown completed")
	}

	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown observability")
		errs = append(errs, fmt.Errorf("observability: %w", err))
	}

	return errors.Join(errs...)
}
