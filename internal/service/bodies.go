// Package service implements the celestial bodies fetch logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"solar-proxy/internal/client"
	"solar-proxy/internal/config"
	"solar-proxy/internal/model"
)

const userAgent = "solar-proxy/1.0"

// StatusError reports an upstream reply outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// CredentialFunc returns the bearer token for the next upstream call.
// An empty string means the call is made unauthenticated.
type CredentialFunc func() string

// EnvCredential reads the named environment variable on every call, so the
// token can be set, rotated or removed without restarting the process.
// The value is used as-is; only an unset or empty variable means no token.
func EnvCredential(name string) CredentialFunc {
	return func() string {
		return os.Getenv(name)
	}
}

// BodiesService fetches the celestial bodies list from the fixed upstream URL.
type BodiesService struct {
	client     *client.UpstreamClient
	credential CredentialFunc
	logger     *slog.Logger
	url        string
}

// NewBodiesService creates a BodiesService.
func NewBodiesService(c *client.UpstreamClient, cfg *config.Config, cred CredentialFunc, logger *slog.Logger) (*BodiesService, error) {
	u, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if cred == nil {
		cred = func() string { return "" }
	}

	return &BodiesService{
		client:     c,
		credential: cred,
		logger:     logger.With("component", "bodies_service"),
		url:        u.String(),
	}, nil
}

// URL returns the upstream endpoint this service calls.
func (s *BodiesService) URL() string {
	return s.url
}

// Fetch performs one upstream GET and returns the reply when its status is 2xx.
// The credential is resolved at call time; when it is empty no Authorization
// header is sent.
func (s *BodiesService) Fetch(ctx context.Context) (*model.UpstreamResponse, error) {
	header := make(http.Header)
	header.Set("Accept", "application/json")
	header.Set("User-Agent", userAgent)

	token := s.credential()
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	s.logger.Debug("fetching bodies", "authenticated", token != "")

	resp, err := s.client.Get(ctx, s.url, header)
	if err != nil {
		return nil, fmt.Errorf("fetch bodies: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}
