package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"solar-proxy/internal/client"
	"solar-proxy/internal/config"
	"solar-proxy/internal/handler"
	"solar-proxy/internal/metrics"
	"solar-proxy/internal/middleware"
	"solar-proxy/internal/service"
	"solar-proxy/internal/static"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("solar-proxy"),
		kong.Description("Static site server with a proxied Solar System bodies API."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", version, commit, date)},
	)

	fx.New(
		fx.Provide(
			func() *config.CLI { return &cli },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			metrics.New,
			newEcho,
			newCredential,
			newStaticStore,
			client.NewUpstreamClient,
			service.NewBodiesService,
			handler.NewProxyHandler,
			handler.NewStaticHandler,
			handler.NewHealthHandler,
		),
		fx.Invoke(handler.RegisterMetrics, handler.RegisterRoutes, warnConfigPermissions, startServer),
	).Run()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

func newEcho(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Inbound timeouts to mitigate slow-client attacks. WriteTimeout must
	// outlast the upstream timeout or proxied replies get cut off.
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second + 30*time.Second
	e.Server.IdleTimeout = 120 * time.Second
	e.Server.ReadHeaderTimeout = 10 * time.Second

	middleware.Install(e, cfg, logger, m)
	if cfg.Metrics.Enabled {
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	return e
}

// newCredential binds the bearer token to the configured environment variable.
// The variable is re-read on every proxied request.
func newCredential(cfg *config.Config, logger *slog.Logger) service.CredentialFunc {
	cred := service.EnvCredential(cfg.Upstream.APIKeyEnv)
	if cred() == "" {
		logger.Info("upstream credential not set; requests go out unauthenticated until it is", "env", cfg.Upstream.APIKeyEnv)
	}
	return cred
}

func newStaticStore(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*static.Store, error) {
	store, err := static.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("serving static files", "root", store.Dir(), "index", cfg.Static.Index)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func warnConfigPermissions(cfg *config.Config, logger *slog.Logger) {
	if cfg.FilePath() == "" {
		logger.Info("no config file found; using built-in defaults")
	}
	cfg.WarnPermissions(logger)
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			addr := cfg.Server.Addr()
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting server", "addr", addr, "upstream", cfg.Upstream.URL)
			go func() {
				if err := e.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return e.Shutdown(ctx)
		},
	})
}
