// Package httpapi provides the HTTP+JSON QueryBackend.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.QueryBackend = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultBackendURL
	DefaultTimeout = domain.DefaultTimeout

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 8 << 20
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:5000).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond is the sustained outbound rate (default: 5).
	RequestsPerSecond float64

	// Burst is the outbound burst size (default: 5).
	Burst int

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the news query backend.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// queryBody is the request body for every query endpoint.
type queryBody struct {
	Query          string `json:"query"`
	ForceLangchain *bool  `json:"force_langchain,omitempty"`
}

// toggleBody is the request body for the agent toggle endpoint.
type toggleBody struct {
	EnableLangchain bool `json:"enable_langchain"`
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query posts req to endpoint and returns the JSON body.
// Non-2xx responses still return their body when it is JSON, since the
// backend reports failures as {"error": ...} with a 4xx status.
func (c *Client) Query(ctx context.Context, endpoint string, req domain.QueryRequest) ([]byte, error) {
	body := queryBody{Query: req.Text}
	if req.UseAgent {
		force := true
		body.ForceLangchain = &force
	}

	status, payload, err := c.post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: status %d, %d bytes", domain.ErrInvalidResponse, status, len(payload))
	}
	if status < 200 || status >= 300 {
		logger.Debug("Backend returned status %d with JSON body", status)
	}
	return payload, nil
}

// ToggleAgent asks the backend to enable or disable agent mode.
func (c *Client) ToggleAgent(ctx context.Context, enable bool) error {
	status, payload, err := c.post(ctx, domain.ToggleEndpoint, toggleBody{EnableLangchain: enable})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrToggleRejected, status, strings.TrimSpace(string(payload)))
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (int, []byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrTransport, err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("POST %s", url)
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return 0, nil, fmt.Errorf("%w: send request: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
	}

	logger.Debug("POST %s: status %d, %d bytes", url, resp.StatusCode, len(payload))
	return resp.StatusCode, payload, nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
