// Package rest implements the outbound HTTP client for the Eventura
// backend. It is the single chokepoint for network calls: bearer token
// attachment, JSON codec, error normalization, and the single
// refresh-and-retry cycle on 401.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

const defaultTimeout = 20 * time.Second

// Config captures the settings for building a backend Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Eventura backend on behalf of one device. Tokens are
// read from and written to the device store so that a refresh performed
// mid-request survives process restarts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      ports.DeviceStore
	log        zerolog.Logger

	// refreshMu serializes the refresh cycle; a waiter that arrives after
	// another request already rotated the tokens reuses the stored pair
	// instead of burning the refresh token again.
	refreshMu sync.Mutex
}

// NewClient builds a Client. A default timeout is applied when none is
// provided; a hung request must never hold in-flight guards forever.
func NewClient(cfg Config, store ports.DeviceStore, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		store:      store,
		log:        log,
	}
}

// Get issues a GET and decodes the JSON response into out (skipped when
// out is nil or the backend answered 204).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.ErrMalformedResponse
	}
	return nil
}

// do runs one request. On a 401 outside the auth endpoints it attempts
// exactly one token refresh and retries once; a second 401 surfaces as
// unauthorized rather than looping.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var encoded []byte
	if body != nil {
		var err error
		if encoded, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	token, _, err := c.store.Get(ctx, ports.KeyAccessToken)
	if err != nil {
		c.log.Warn().Err(err).Msg("device store read failed, sending unauthenticated")
		token = ""
	}

	data, status, err := c.roundTrip(ctx, method, path, encoded, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !isAuthPath(path) {
		newToken, refreshErr := c.refresh(ctx, token)
		if refreshErr != nil {
			return nil, refreshErr
		}
		data, status, err = c.roundTrip(ctx, method, path, encoded, newToken)
		if err != nil {
			return nil, err
		}
	}

	if status >= 400 {
		return nil, domain.NewAPIError(status, extractMessage(data))
	}
	return data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, token string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &domain.ConnectivityError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &domain.ConnectivityError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &domain.ConnectivityError{Err: err}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}
	return data, resp.StatusCode, nil
}

// refresh exchanges the stored refresh token for a new token pair. Success
// updates durable token storage; failure clears all durable auth state so
// the caller lands in a clean anonymous session. staleToken is the access
// token the failed request carried: when the stored token already differs,
// another request finished the rotation while this one waited for the
// lock, and the stored token is reused without a second refresh call.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current, ok, err := c.store.Get(ctx, ports.KeyAccessToken); err == nil && ok && current != "" && current != staleToken {
		return current, nil
	}

	refreshToken, ok, err := c.store.Get(ctx, ports.KeyRefreshToken)
	if err != nil || !ok || refreshToken == "" {
		c.clearAuth(ctx)
		return "", domain.ErrUnauthorized
	}

	payload := map[string]string{"refreshToken": refreshToken}
	data, status, err := c.roundTrip(ctx, http.MethodPost, "/auth/refresh", mustJSON(payload), "")
	if err != nil {
		return "", err
	}
	if status >= 400 {
		c.clearAuth(ctx)
		c.log.Debug().Int("status", status).Msg("token refresh rejected")
		return "", domain.ErrUnauthorized
	}

	var result struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(data, &result); err != nil || result.AccessToken == "" {
		c.clearAuth(ctx)
		return "", domain.ErrUnauthorized
	}

	if err := c.store.Set(ctx, ports.KeyAccessToken, result.AccessToken); err != nil {
		return "", fmt.Errorf("persist access token: %w", err)
	}
	if result.RefreshToken != "" {
		if err := c.store.Set(ctx, ports.KeyRefreshToken, result.RefreshToken); err != nil {
			return "", fmt.Errorf("persist refresh token: %w", err)
		}
	}

	c.log.Debug().Msg("access token refreshed")
	return result.AccessToken, nil
}

func (c *Client) clearAuth(ctx context.Context) {
	if err := c.store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken, ports.KeyUser); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear auth storage")
	}
}

// isAuthPath reports whether path belongs to the auth endpoints, which
// never trigger a refresh cycle on 401.
func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}

// extractMessage pulls a human-readable message out of an error body.
// The backend uses either {"message": ...} or {"error": ...}.
func extractMessage(data []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
