// Package authclient verifies bearer tokens against the user-service
// /auth/verify endpoint.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"event-share/internal/metrics"
	"event-share/internal/model"
	"event-share/pkg/apierror"
)

const (
	DefaultTimeout = 5 * time.Second
	verifyPath     = "/auth/verify"
	maxBodyBytes   = 64 << 10
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client, e.g. to share a transport.
// The client's Timeout still bounds every verification.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyEnvelope struct {
	Success bool           `json:"success"`
	Data    model.Identity `json:"data"`
}

// Verify forwards token to the user-service. A rejection by the user-service
// yields 401 UNAUTHORIZED; a transport failure, timeout, 5xx or malformed
// reply yields 503 VERIFIER_UNAVAILABLE.
func (c *Client) Verify(ctx context.Context, token string) (model.Identity, error) {
	started := time.Now()
	identity, outcome, err := c.verify(ctx, token)
	metrics.VerifyDuration.Observe(time.Since(started).Seconds())
	metrics.VerifyCalls.WithLabelValues(outcome).Inc()
	return identity, err
}

func (c *Client) verify(ctx context.Context, token string) (model.Identity, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+verifyPath, nil)
	if err != nil {
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("build verify request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("call user-service: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("read verify response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		slog.DebugContext(ctx, "token rejected by user-service", "status", resp.StatusCode)
		return model.Identity{}, "rejected", apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	default:
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("user-service returned status %d", resp.StatusCode))
	}

	var envelope verifyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("decode verify response: %w", err))
	}
	if !envelope.Success || envelope.Data.ID == "" || envelope.Data.Username == "" {
		return model.Identity{}, "unavailable", unavailable(fmt.Errorf("verify response carries no identity"))
	}

	return envelope.Data, "ok", nil
}

func unavailable(cause error) error {
	slog.Warn("token verification unavailable", "error", cause)
	return apierror.Wrap(cause, "VERIFIER_UNAVAILABLE", "identity verification is temporarily unavailable", http.StatusServiceUnavailable)
}
