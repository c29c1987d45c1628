package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// Timeout returns middleware that puts a deadline on the request context.
// The response writer is left in place, so a handler that honours the context
// returns early and the error handler renders a 503.
func Timeout(duration time.Duration) echo.MiddlewareFunc {
	if duration <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parent := c.Request().Context()
			if err := parent.Err(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(parent, duration)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if ctxErr := ctx.Err(); ctxErr != nil && !c.Response().Committed {
				return ctxErr
			}
			return err
		}
	}
}
