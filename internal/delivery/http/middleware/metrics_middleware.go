package middleware

import (
	"net/http"
	"strconv"
	"time"

	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MetricsMiddleware records per-request counters and latency histograms.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware is the constructor for MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Observe instruments the request. The route path (not the raw URL) is used
// as the label to keep cardinality bounded; scrapes of /metrics itself are
// not recorded.
func (m *MetricsMiddleware) Observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/metrics" {
			return next(c)
		}

		start := time.Now()
		err := next(c)

		// The error handler has not run yet, so derive the status from the
		// error itself when there is one.
		status := c.Response().Status
		if err != nil {
			var appErr domainerrors.AppError
			var httpErr *echo.HTTPError
			switch {
			case errors.As(err, &appErr):
				status = appErr.HTTPCode()
			case errors.As(err, &httpErr):
				status = httpErr.Code
			default:
				status = http.StatusInternalServerError
			}
		}

		method := c.Request().Method
		path := c.Path()
		m.metrics.RequestCount.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.metrics.RequestLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
