package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"solar-proxy/internal/client"
	"solar-proxy/internal/config"
	"solar-proxy/internal/model"
	"solar-proxy/internal/service"
)

// ProxyHandler serves the /api/ routes.
type ProxyHandler struct {
	service      *service.BodiesService
	logger       *slog.Logger
	exposeDetail bool
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.BodiesService, cfg *config.Config, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service:      svc,
		logger:       logger.With("component", "proxy_handler"),
		exposeDetail: cfg.Upstream.ExposeErrorDetail,
	}
}

// Bodies fetches the celestial bodies list and relays the upstream bytes untouched.
func (h *ProxyHandler) Bodies(c echo.Context) error {
	resp, err := h.service.Fetch(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, resp.Body)
}

// NotFound answers every other /api/ path. The upstream is never contacted.
func (h *ProxyHandler) NotFound(c echo.Context) error {
	return c.String(http.StatusNotFound, "API endpoint not found")
}

func (h *ProxyHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("proxy error",
		"err", err,
		"path", c.Request().URL.Path,
	)

	msg := describeError(err)
	if h.exposeDetail {
		msg = err.Error()
	}

	return c.JSON(http.StatusInternalServerError, model.ErrorEnvelope{
		Error:   model.FetchErrorMessage,
		Message: msg,
	})
}

// describeError classifies an upstream failure into a message that is safe to
// show clients. The full error only goes to the server log.
func describeError(err error) string {
	var statusErr *service.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	if errors.Is(err, client.ErrBodyTooLarge) {
		return "upstream response too large"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "upstream request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "upstream request timed out"
	}

	if errors.Is(err, context.Canceled) {
		return "client disconnected"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "upstream host unreachable"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "upstream connection failed"
	}

	return "upstream request failed"
}
