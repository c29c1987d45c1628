package server

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Timing returns a middleware that adds an X-Response-Time header to HTTP responses.
// The duration is measured up to the moment the response is committed.
func Timing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			res := c.Response()
			res.Before(func() {
				res.Header().Set(HeaderXResponseTime, time.Since(start).String())
			})

			err := next(c)
			if !res.Committed {
				res.Header().Set(HeaderXResponseTime, time.Since(start).String())
			}
			return err
		}
	}
}
