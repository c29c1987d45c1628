package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-helmet/logger"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	// HealthPath specifies the health probe endpoint to exclude from logging
	HealthPath string

	// ReadyPath specifies the readiness probe endpoint to exclude from logging
	ReadyPath string

	// SlowRequestThreshold marks requests slower than this with result_code="WARN".
	// Zero disables slow request detection.
	SlowRequestThreshold time.Duration
}

// Logger returns a middleware that emits one summary log per request.
// Severity follows the response: 5xx or an unhandled error logs at ERROR, 4xx at WARN.
func Logger(log logger.Logger, cfg LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if path == cfg.HealthPath || path == cfg.ReadyPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			res := c.Response()
			status := res.Status
			if err != nil {
				status = statusFromError(err)
			}

			level, resultCode := determineSeverity(status, latency, cfg.SlowRequestThreshold, err)
			event := createLogEvent(log.WithContext(c.Request().Context()), level)
			if err != nil {
				event = event.Err(err)
			}

			req := c.Request()
			event.
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("trace_id", traceID(c)).
				Str("http.request.method", req.Method).
				Int("http.response.status_code", status).
				Dur("http.server.request.duration", latency).
				Str("url.path", req.URL.Path).
				Str("http.route", c.Path()).
				Str("client.address", c.RealIP()).
				Str("user_agent.original", req.UserAgent()).
				Str("result_code", resultCode).
				Bool("security_headers", err == nil).
				Msg(req.Method + " " + req.URL.Path + " completed in " + latency.String() + " with status " + strconv.Itoa(status))

			return err
		}
	}
}

// determineSeverity calculates log severity and result_code based on HTTP status, latency, and errors.
func determineSeverity(status int, latency, threshold time.Duration, err error) (level, resultCode string) {
	const (
		levelError = "error"
		levelWarn  = "warn"
		levelInfo  = "info"
		codeError  = "ERROR"
		codeWarn   = "WARN"
		codeInfo   = "INFO"
	)

	if status >= 500 || (err != nil && status == 0) {
		return levelError, codeError
	}
	if status >= 400 {
		return levelWarn, codeWarn
	}
	// Slow requests stay at INFO but are flagged for filtering.
	if threshold > 0 && latency > threshold {
		return levelInfo, codeWarn
	}
	return levelInfo, codeInfo
}

func createLogEvent(log logger.Logger, level string) logger.LogEvent {
	switch level {
	case "error":
		return log.Error()
	case "warn":
		return log.Warn()
	default:
		return log.Info()
	}
}

func traceID(c echo.Context) string {
	sc := trace.SpanContextFromContext(c.Request().Context())
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
