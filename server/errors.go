package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/logger"
)

// APIErrorResponse is the body of every error response.
type APIErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError carries a stable machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorHandler(err error, c echo.Context, cfg *config.Config, log logger.Logger) {
	if c.Response().Committed {
		return
	}

	status := statusFromError(err)
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("Unhandled error")
		// Hide internal details unless debugging
		if !cfg.App.Debug {
			msg = "An error occurred while processing your request"
		}
	}

	body := APIErrorResponse{Error: APIError{Code: statusToErrorCode(status), Message: msg}}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func statusFromError(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func statusToErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
