package handler

import (
	"net/http"
	"time"

	"stringbox/config"
	"stringbox/internal/domain/repository"
	"stringbox/internal/util"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	cfg       *config.Config
	checker   repository.HealthChecker
	startedAt time.Time
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(cfg *config.Config, checker repository.HealthChecker) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		checker:   checker,
		startedAt: time.Now(),
	}
}

// Health is the liveness probe: the process is up and serving.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HealthDetailed reports service metadata and the storage check result.
func (h *HealthHandler) HealthDetailed(c echo.Context) error {
	storageStatus := "ok"
	status := "healthy"
	code := http.StatusOK

	if err := h.checker.Ping(c.Request().Context()); err != nil {
		storageStatus = "unreachable"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]any{
		"status":  status,
		"service": h.cfg.Env.ServiceName,
		"env":     h.cfg.Env.Env,
		"uptime":  util.FormatDuration(time.Since(h.startedAt)),
		"storage": storageStatus,
	})
}

// Ready is the readiness probe: fails while the storage backend is unreachable.
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.checker.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
