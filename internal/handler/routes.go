package handler

import (
	"github.com/labstack/echo/v4"

	"solar-proxy/internal/model"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// Paths under /api/ go to the proxy; everything else is a static file lookup.
// CORS headers and OPTIONS replies come from the chain in middleware.Install.
func RegisterRoutes(e *echo.Echo, proxy *ProxyHandler, files *StaticHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	e.GET(model.BodiesPath, proxy.Bodies)
	e.Any(model.APIPrefix+"*", proxy.NotFound)

	e.GET("/*", files.Serve)
}
