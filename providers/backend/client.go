// Package backend spricht mit der Backend-API, die hochgeladene, noch unveröffentlichte Dateien verwaltet.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"docsync/models"
	"docsync/providers"
)

// ErrRejected: das Backend hat mit success=false oder ohne success geantwortet.
var ErrRejected = errors.New("backend rejected request")

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient erstellt einen Client mit höchstens rps Anfragen pro Sekunde.
func NewClient(baseURL, token string, rps float64, logger *zap.Logger) *Client {
	if rps <= 0 {
		rps = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: providers.NewHTTPClient(token, 30*time.Second),
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

type notPublishedResponse struct {
	Success *bool                `json:"success"`
	Files   []models.PendingFile `json:"files"`
}

type publishRequest struct {
	IDs []uint64 `json:"ids"`
}

type publishResponse struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// NotPublished liefert alle hochgeladenen, noch nicht veröffentlichten Dateien.
func (c *Client) NotPublished(ctx context.Context) ([]models.PendingFile, error) {
	var res notPublishedResponse
	if err := c.do(ctx, http.MethodGet, "/api/file/notPublished", nil, &res); err != nil {
		return nil, err
	}
	if res.Success == nil || !*res.Success {
		return nil, fmt.Errorf("list pending files: %w", ErrRejected)
	}
	c.logger.Debug("pending files fetched", zap.Int("count", len(res.Files)))
	return res.Files, nil
}

// Publish veröffentlicht die Dateien mit den gegebenen Backend-ids. Nur success=true gilt als Erfolg.
func (c *Client) Publish(ctx context.Context, ids []uint64) error {
	var res publishResponse
	if err := c.do(ctx, http.MethodPost, "/api/file/publish", publishRequest{IDs: ids}, &res); err != nil {
		return err
	}
	if res.Success == nil || !*res.Success {
		return fmt.Errorf("publish %d files: %w: %s", len(ids), ErrRejected, string(res.Error))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status code %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
