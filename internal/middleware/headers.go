package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"solar-proxy/internal/model"
)

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// hopByHopHeaders are connection-scoped and never meaningful to handlers.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func setCORSHeaders(h http.Header) {
	h.Set(echo.HeaderAccessControlAllowOrigin, corsAllowOrigin)
	h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
	h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
}

// CORS adds permissive cross-origin headers to every response for a path
// under /api/. Headers are set before next runs so error replies carry them too,
// including rejections from middleware installed after this one.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if model.Classify(c.Request().URL.Path) == model.RouteAPI {
				setCORSHeaders(c.Response().Header())
			}
			return next(c)
		}
	}
}

// Preflight answers OPTIONS on any path with 200, the CORS headers and no body.
// It must be installed with Use ahead of BodyLimit so it also covers paths
// without a route and requests carrying a body.
func Preflight() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodOptions {
				return next(c)
			}
			setCORSHeaders(c.Response().Header())
			return c.NoContent(http.StatusOK)
		}
	}
}

// SecurityHeaders strips hop-by-hop headers from the request and adds
// browser hardening headers to the response.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, h := range hopByHopHeaders {
				c.Request().Header.Del(h)
			}

			// Set before next: once a handler writes, header changes are dropped.
			h := c.Response().Header()
			h.Set(echo.HeaderXContentTypeOptions, "nosniff")
			h.Set(echo.HeaderXFrameOptions, "SAMEORIGIN")

			return next(c)
		}
	}
}
