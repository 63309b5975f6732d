package middleware

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"solar-proxy/internal/config"
	"solar-proxy/internal/metrics"
)

// Install adds the global middleware chain to e. CORS and Preflight sit ahead
// of BodyLimit so a rejected body still yields CORS headers under /api/ and
// OPTIONS is always answered with 200.
func Install(e *echo.Echo, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(logger))
	if cfg.Metrics.Enabled {
		e.Use(MetricsMiddleware(m))
	}
	e.Use(SecurityHeaders())
	e.Use(CORS())
	e.Use(Preflight())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.BodyMaxBytes)))
}
