// Package client provides the upstream HTTP client for the celestial bodies API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"solar-proxy/internal/config"
	"solar-proxy/internal/metrics"
	"solar-proxy/internal/model"
)

// maxBodyBytes caps how much of an upstream body is buffered in memory.
const maxBodyBytes = 32 << 20

// ErrBodyTooLarge is returned when the upstream body exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("upstream body exceeds size limit")

// UpstreamClient sends requests to the upstream API.
type UpstreamClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUpstreamClient creates an UpstreamClient with connection pooling and a
// bounded per-call timeout. The metrics parameter is optional; pass nil to
// disable upstream metrics recording.
func NewUpstreamClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *UpstreamClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &UpstreamClient{
		httpClient: &http.Client{
			Transport: transport,
			// Covers dial, headers and body read.
			Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		logger:  logger.With("component", "upstream_client"),
		metrics: m,
	}
}

// Do executes an HTTP request against the upstream and reads the whole body.
// Any status code is returned as-is; interpreting it is up to the caller.
func (c *UpstreamClient) Do(req *http.Request) (*model.UpstreamResponse, error) {
	c.logger.Debug("upstream request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	method := metrics.NormalizeMethod(req.Method)

	if err != nil {
		c.observe(method, "error", start)
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	c.observe(method, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Get builds a GET request bound to ctx and executes it.
// When ctx is canceled (e.g. the client disconnects), the upstream request is
// canceled too.
func (c *UpstreamClient) Get(ctx context.Context, url string, header http.Header) (*model.UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header

	return c.Do(req)
}

func (c *UpstreamClient) observe(method, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	c.metrics.UpstreamResponses.WithLabelValues(method, status).Inc()
}
