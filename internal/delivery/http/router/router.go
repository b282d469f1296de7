// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"stringbox/internal/delivery/http/middleware"
	"stringbox/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	StringHandler  *handler.StringHandler
	HealthHandler  *handler.HealthHandler
	DocsHandler    *handler.DocsHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	stringHandler  *handler.StringHandler
	healthHandler  *handler.HealthHandler
	docsHandler    *handler.DocsHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		stringHandler:  params.StringHandler,
		healthHandler:  params.HealthHandler,
		docsHandler:    params.DocsHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Probes and operational endpoints live outside the API prefix.
	e.GET("/health", r.healthHandler.Health)
	e.GET("/health/detailed", r.healthHandler.HealthDetailed)
	e.GET("/ready", r.healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiV1 := e.Group("/api/v1")

	apiV1.GET("/swagger.json", r.docsHandler.OpenAPI)

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
	}

	stringGroup := apiV1.Group("/strings")
	{
		// Save requires a valid access token; random fetch is public.
		stringGroup.POST("/save", r.stringHandler.Save, r.authMiddleware.Authenticate)
		stringGroup.GET("/random", r.stringHandler.Random)
	}
}
