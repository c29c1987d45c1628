package server

import (
	"context"

	"github.com/felixge/httpsnoop"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-helmet/helmet"
)

// Span event recorded when security headers are written to a response.
const (
	EventSecurityHeadersApplied = "security_headers.applied"
	AttrSecurityHeadersCount    = "security_headers.count"
)

// Counter of responses seen by the middleware, split by outcome.
const (
	MetricSecurityHeadersResponses = "security_headers.responses"
	AttrSecurityHeadersOutcome     = "outcome"

	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

const meterName = "github.com/gaborage/go-helmet/server"

// SecurityHeadersConfig configures the SecurityHeaders middleware.
type SecurityHeadersConfig struct {
	// Injector holds the rendered headers. Required.
	Injector *helmet.Injector

	// MeterProvider records the responses counter. Defaults to the global provider.
	MeterProvider metric.MeterProvider
}

// SecurityHeaders returns a middleware that appends the injector's headers to every
// successful response. Headers are written just before the response is committed,
// including a Flush ahead of the first write, or after the handler returns if it
// wrote nothing.
//
// When the handler returns an error or panics, no security headers are added and the
// error is passed on unchanged; the error handler renders that response as is.
func SecurityHeaders(inj *helmet.Injector) echo.MiddlewareFunc {
	return SecurityHeadersWithConfig(SecurityHeadersConfig{Injector: inj})
}

// SecurityHeadersWithConfig returns a SecurityHeaders middleware with config.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	if cfg.Injector == nil {
		panic("echo: security headers middleware requires an injector")
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	inj := cfg.Injector
	responses, err := cfg.MeterProvider.Meter(meterName).Int64Counter(
		MetricSecurityHeadersResponses,
		metric.WithDescription("Responses handled by the security headers middleware"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	record := func(ctx context.Context, outcome string) {
		if responses == nil {
			return
		}
		responses.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrSecurityHeadersOutcome, outcome)))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			ctx := c.Request().Context()

			var applied, failed, returned bool
			apply := func() {
				if applied || failed {
					return
				}
				applied = true
				inj.Apply(res.Header())
				trace.SpanFromContext(ctx).AddEvent(EventSecurityHeadersApplied,
					trace.WithAttributes(attribute.Int(AttrSecurityHeadersCount, inj.Len())),
				)
				record(ctx, OutcomeApplied)
			}
			res.Before(apply)

			// Flush commits the header block without running Before hooks.
			orig := res.Writer
			res.Writer = httpsnoop.Wrap(orig, httpsnoop.Hooks{
				Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
					return func() {
						apply()
						next()
					}
				},
			})

			defer func() {
				res.Writer = orig
				if !returned {
					failed = true
					record(ctx, OutcomeSkipped)
				}
			}()

			err := next(c)
			returned = true
			if err != nil {
				if !applied {
					failed = true
					record(ctx, OutcomeSkipped)
				}
				return err
			}

			if !res.Committed {
				apply()
			}
			return nil
		}
	}
}
