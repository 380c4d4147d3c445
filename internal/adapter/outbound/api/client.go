package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/session"
)

// DefaultBaseURL is the backend's known local address.
const DefaultBaseURL = "http://localhost:8000"

// Client is the outbound HTTP client for the Product Review API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *slog.Logger

	// credMu guards the credential, which the session service swaps on
	// login/logout while requests may be in flight.
	credMu sync.RWMutex
	cred   session.Credential
}

// Request describes a single outbound call. Constructed per call, never reused.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is the endpoint path, joined onto the client's base URL.
	Path string
	// Body is JSON-encoded when non-nil. Mutually exclusive with Form.
	Body any
	// Form is a pre-encoded binary/multipart payload. When set, the JSON
	// content type is omitted and Form.ContentType (which carries the
	// multipart boundary) is sent instead.
	Form *FormPayload
	// Header holds optional extra headers.
	Header http.Header
}

// FormPayload is a binary request body with its own content type.
type FormPayload struct {
	// ContentType is the full content type, including any boundary.
	ContentType string
	// Reader supplies the encoded payload.
	Reader io.Reader
}

// NewFileForm encodes a single file field as a multipart form payload.
func NewFileForm(field, filename string, r io.Reader) (*FormPayload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return &FormPayload{
		ContentType: w.FormDataContentType(),
		Reader:      &buf,
	}, nil
}

// NewClient creates a new API client.
// It reads configuration from REVIEWHUB_* environment variables by default.
// Options can be used to override the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: envOrDefault("REVIEWHUB_API_URL", DefaultBaseURL),
		timeout: parseDurationEnv("REVIEWHUB_API_TIMEOUT", 15*time.Second),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// SetCredential installs the bearer credential attached to subsequent calls.
func (c *Client) SetCredential(cred session.Credential) {
	c.credMu.Lock()
	c.cred = cred
	c.credMu.Unlock()
}

// ClearCredential removes the bearer credential. Subsequent calls are anonymous.
func (c *Client) ClearCredential() {
	c.credMu.Lock()
	c.cred = session.Credential{}
	c.credMu.Unlock()
}

// credential returns the current credential.
func (c *Client) credential() session.Credential {
	c.credMu.RLock()
	defer c.credMu.RUnlock()
	return c.cred
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the described request and decodes the JSON response into
// result (nil result discards the body). Non-2xx responses become
// *StatusError, network failures become *TransportError; errors are never
// swallowed at this layer.
func (c *Client) Do(ctx context.Context, req Request, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Cause: err}
		}
	}

	url := strings.TrimRight(c.baseURL, "/") + req.Path

	var bodyReader io.Reader
	switch {
	case req.Form != nil:
		bodyReader = req.Form.Reader
	case req.Body != nil:
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	switch {
	case req.Form != nil:
		// The form payload owns its content type: a multipart body must
		// carry the writer's boundary, so the JSON header is omitted.
		httpReq.Header.Set("Content-Type", req.Form.ContentType)
	case req.Body != nil:
		httpReq.Header.Set("Content-Type", "application/json")
	}

	cred := c.credential()
	if !cred.IsZero() {
		httpReq.Header.Set("Authorization", cred.Scheme+" "+cred.Token)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.logRequest(req.Method, url, requestID, !cred.IsZero(), 0, duration)
		c.observe(req.Method, "transport_error", duration)
		return &TransportError{Cause: err}
	}
	defer httpResp.Body.Close()

	c.logRequest(req.Method, url, requestID, !cred.IsZero(), httpResp.StatusCode, duration)
	c.observe(req.Method, strconv.Itoa(httpResp.StatusCode), duration)

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &TransportError{Cause: fmt.Errorf("read response body: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &StatusError{
			Status:     httpResp.StatusCode,
			StatusText: http.StatusText(httpResp.StatusCode),
			Detail:     extractDetail(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// logRequest records the exchange for diagnostics. The credential value is
// never logged, only whether one was attached.
func (c *Client) logRequest(method, url, requestID string, authed bool, status int, d time.Duration) {
	c.logger.Debug("api request",
		"method", method,
		"url", url,
		"request_id", requestID,
		"authenticated", authed,
		"status", status,
		"duration_ms", d.Milliseconds(),
	)
}

func (c *Client) observe(method, status string, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RequestsTotal.WithLabelValues(method, status).Inc()
	c.metrics.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// extractDetail pulls the backend's human-readable "detail" field out of a
// JSON error body. Returns "" when the body is not JSON or carries no
// string detail.
func extractDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return ""
}

// Helper functions for env var parsing.

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseDurationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	// Try parsing as seconds (integer).
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	// Try parsing as duration string.
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultVal
}
