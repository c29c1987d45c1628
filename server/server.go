// Package server provides the HTTP server built on the Echo framework.
// It renders the configured security header policy once at startup and
// attaches it to every successful response.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/helmet"
	"github.com/gaborage/go-helmet/logger"
)

// Server represents an HTTP server instance with Echo framework.
// It manages server lifecycle, configuration, and request handling.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	logger   logger.Logger
	injector *helmet.Injector
}

// New creates a server from configuration. The security policy is rendered and
// validated here, so an invalid header name or value fails construction.
func New(cfg *config.Config, log logger.Logger) (*Server, error) {
	policy, err := PolicyFromConfig(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("failed to build security policy: %w", err)
	}

	injector, err := helmet.NewInjector(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to render security headers: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		errorHandler(err, c, cfg, log)
	}

	SetupMiddlewares(e, log, cfg, injector)

	s := &Server{
		echo:     e,
		cfg:      cfg,
		logger:   log,
		injector: injector,
	}

	e.GET(cfg.Server.Path.Health, s.healthCheck)
	e.GET(cfg.Server.Path.Ready, s.readyCheck)

	names := make([]string, 0, injector.Len())
	for _, f := range injector.Fields() {
		names = append(names, f.Name)
	}
	log.Debug().
		Strs("security_headers", names).
		Str("health_path", cfg.Server.Path.Health).
		Str("ready_path", cfg.Server.Path.Ready).
		Msg("Server configured")

	return s, nil
}

// Echo returns the underlying Echo instance for route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Injector returns the rendered security headers, for wrapping handlers served outside Echo.
func (s *Server) Injector() *helmet.Injector {
	return s.injector
}

// Start starts the HTTP server and begins accepting requests.
// It blocks until the server is shut down or encounters an error.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))

	s.logger.Info().
		Str("service", s.cfg.App.Name).
		Str("version", s.cfg.App.Version).
		Str("env", s.cfg.App.Env).
		Str("address", addr).
		Int("security_headers", s.injector.Len()).
		Msg("Starting server...")

	// Configure Echo's own server so Shutdown reaches it.
	server := s.echo.Server
	server.Addr = addr
	server.ReadTimeout = s.cfg.Server.Timeout.Read
	server.WriteTimeout = s.cfg.Server.Timeout.Write
	server.IdleTimeout = s.cfg.Server.Timeout.Idle

	return s.echo.StartServer(server)
}

// Shutdown gracefully shuts down the HTTP server with the given context.
// It waits for existing connections to finish within the context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) readyCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":           "ready",
		"security_headers": s.injector.Len(),
		"time":             time.Now().Unix(),
	})
}
