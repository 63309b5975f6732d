// Package handler implements the HTTP handlers and route wiring.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"solar-proxy/internal/service"
	"solar-proxy/internal/static"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	bodies  *service.BodiesService
	store   *static.Store
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(bodies *service.BodiesService, store *static.Store, v Version) *HealthHandler {
	return &HealthHandler{bodies: bodies, store: store, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the build version, the upstream endpoint and the served directory.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "ok",
		"version":      string(h.version),
		"upstream_url": h.bodies.URL(),
		"static_root":  h.store.Dir(),
	})
}
