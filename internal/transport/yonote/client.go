// Package yonote is a client for the Yonote (Outline-compatible) document store API.
package yonote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/metrics"
)

// Operation names of the document store API.
const (
	OpCollectionsList = "collections.list"
	OpDocumentsInfo   = "documents.info"
	OpRowsList        = "database.rows.list"
	OpAuthInfo        = "auth.info"
)

// maxErrorBody bounds how much of a failed response is read for logging.
const maxErrorBody = 4 << 10

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, overrides Timeout
	Logger     *zap.Logger
}

// Client issues typed requests against the document store.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a document store client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    hc,
		logger:  logger,
	}
}

// Do posts payload to the operation endpoint and decodes the JSON response into out.
// Any non-2xx status or transport error yields a *domain.RemoteCallError and the
// body is never decoded. The typed wrappers drop out entirely on any error.
func (c *Client) Do(ctx context.Context, operation string, payload, out any) error {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+operation, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metrics.RemoteRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("Document store request failed",
			zap.String("operation", operation),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return domain.NewRemoteCallError(operation, 0, err)
	}
	defer resp.Body.Close()

	metrics.RemoteRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Document store returned error status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", duration),
			zap.String("body", extractMessage(detail)),
		)
		return domain.NewRemoteCallError(operation, resp.StatusCode, nil)
	}

	c.logger.Debug("Document store request",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewRemoteCallError(operation, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return domain.NewRemoteCallError(operation, resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

// extractMessage pulls the "message" or "error" field out of an error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return string(body)
}
