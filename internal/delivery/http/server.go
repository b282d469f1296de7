// Package http implements the HTTP delivery of the service.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"stringbox/config"
	"stringbox/internal/delivery"
	appmiddleware "stringbox/internal/delivery/http/middleware"
	"stringbox/internal/delivery/http/router"
	"stringbox/internal/delivery/http/validator"
	"stringbox/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

// HTTPParams holds everything the server needs, injected by Fx.
type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config            *config.Config
	Logger            *slog.Logger
	ErrorMiddleware   *appmiddleware.ErrorMiddleware
	MetricsMiddleware *appmiddleware.MetricsMiddleware
	RouterParams      router.RouterParams
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// NewServer builds the Echo server with its middleware chain and routes.
func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HTTPErrorHandler = params.ErrorMiddleware.HandleHTTPError
	echoServer.Validator = validator.New()

	echoServer.Use(slogecho.New(params.Logger))
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())
	echoServer.Use(params.MetricsMiddleware.Observe)

	bodyLimit := params.Config.HTTP.MaxRequestBodySize
	if bodyLimit == "" {
		bodyLimit = "1MB"
	}
	echoServer.Use(middleware.BodyLimit(bodyLimit))

	// The limiter runs before any endpoint logic; rejected requests cost a
	// map lookup, nothing more.
	if params.Config.RateLimit.Enabled {
		echoServer.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(params.Config.RateLimit.Rate),
				Burst:     params.Config.RateLimit.Burst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}

	configureTimeouts(echoServer.Server, params.Config)

	router := router.NewRouter(params.RouterParams)
	router.RegisterRoutes(echoServer)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort(s.cfg.HTTP.Host, strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}

func configureTimeouts(server *http.Server, cfg *config.Config) {
	timeouts := cfg.HTTP.Timeouts
	server.ReadTimeout = timeouts.ReadTimeout
	server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	server.WriteTimeout = timeouts.WriteTimeout
	server.IdleTimeout = timeouts.IdleTimeout
}
