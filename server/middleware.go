package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/helmet"
	"github.com/gaborage/go-helmet/logger"
)

// SetupMiddlewares configures and registers all HTTP middlewares for the Echo server.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config, inj *helmet.Injector) {
	// Request ID
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Request spans
	e.Use(otelecho.Middleware(cfg.App.Name))

	// Logger middleware with zerolog
	e.Use(Logger(log, LoggerConfig{
		HealthPath:           cfg.Server.Path.Health,
		ReadyPath:            cfg.Server.Path.Ready,
		SlowRequestThreshold: time.Second,
	}))

	// Recovery
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Bytes("stack", stack).
				Msg("Panic recovered")
			return err
		},
	}))

	// Security headers
	e.Use(SecurityHeaders(inj))

	// Body limit
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// Handler deadline
	e.Use(Timeout(cfg.Server.Timeout.Middleware))

	// Timing
	e.Use(Timing())
}
