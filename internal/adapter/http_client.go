// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/homekeepapp/go-home-keeper/models"
)

type HTTPClientConfig struct {
	BaseURL  string
	DeviceID string
	Timeout  time.Duration
}

type httpSyncTransport struct {
	client   *resty.Client
	deviceID string

	mu    sync.RWMutex
	token string
}

// NewHTTPSyncTransport builds the resty-backed [SyncTransport]. The device id
// travels as a header on every request so the server can exclude this
// device's own changes from pull responses.
func NewHTTPSyncTransport(cfg HTTPClientConfig) SyncTransport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpSyncTransport{client: cli, deviceID: cfg.DeviceID}
}

// SetToken installs the bearer token used on subsequent requests. Token
// acquisition and refresh live outside this package.
func (h *httpSyncTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpSyncTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpSyncTransport) Pull(ctx context.Context, req models.PullRequest) (*models.PullResponse, error) {
	req.DeviceID = h.deviceID

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/pull")
	if err != nil {
		return nil, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var pullResp models.PullResponse
	if err = json.Unmarshal(resp.Body(), &pullResp); err != nil {
		return nil, fmt.Errorf("decode pull response: %w", err)
	}

	return &pullResp, nil
}

func (h *httpSyncTransport) Push(ctx context.Context, req models.PushRequest) (*models.PushResponse, error) {
	req.DeviceID = h.deviceID

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/push")
	if err != nil {
		return nil, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var pushResp models.PushResponse
	if err = json.Unmarshal(resp.Body(), &pushResp); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	return &pushResp, nil
}

func (h *httpSyncTransport) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("X-Device-ID", h.deviceID)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	bodyLower := strings.ToLower(body)

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode() == http.StatusConflict || strings.Contains(bodyLower, "version conflict") {
		return ErrVersionConflict
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d", ErrServerUnavailable, resp.StatusCode())
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
