package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"solar-proxy/internal/static"
)

// StaticHandler serves files from the static root.
type StaticHandler struct {
	store  *static.Store
	logger *slog.Logger
}

// NewStaticHandler creates a StaticHandler.
func NewStaticHandler(store *static.Store, logger *slog.Logger) *StaticHandler {
	return &StaticHandler{
		store:  store,
		logger: logger.With("component", "static_handler"),
	}
}

// Serve writes the requested file, or a 404/500 text reply. The file is read
// completely before anything is written, so a failed read never leaves a
// partial response behind.
func (h *StaticHandler) Serve(c echo.Context) error {
	rel := h.store.Resolve(c.Request().URL.Path)

	f, err := h.store.Read(rel)
	if errors.Is(err, static.ErrNotFound) {
		return c.String(http.StatusNotFound, "File not found: "+rel)
	}
	if err != nil {
		h.logger.Error("read static file", "err", err, "file", rel)
		return c.String(http.StatusInternalServerError, "Server error: "+err.Error())
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, f.ContentType, f.Data)
}
