package middleware

import (
	"log/slog"
	"net/http"

	"stringbox/internal/delivery/http/response"
	domainerrors "stringbox/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware renders every error that escapes a handler. Handlers and
// middleware return errors; this is the single place that turns them into
// response bodies, so the error shape stays uniform across the API.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Application errors carry their own status code and client message.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logger.Error("Request failed",
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
				slog.String("details", appErr.Details()),
				slog.Any("error", err),
			)
		}
		m.writeJSON(c, appErr.HTTPCode(), appErr.Message())

		return
	}

	// Echo's own errors: 404 on unknown routes, 405, 413 from the body
	// limit, 429 from the rate limiter.
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		m.writeJSON(c, httpErr.Code, message)

		return
	}

	// Anything else is unexpected: log the detail, return a generic body.
	m.logger.Error("Unhandled error",
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
		slog.Any("error", err),
	)
	m.writeJSON(c, http.StatusInternalServerError, domainerrors.ErrInternal.Message())
}

func (m *ErrorMiddleware) writeJSON(c echo.Context, code int, message string) {
	if err := c.JSON(code, response.NewError(message)); err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
