package shipstation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/shipping"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024 // 10MB
	// logBodyLimit truncates response bodies in debug log lines.
	logBodyLimit = 2048

	userAgent = "shipsync/0.1.0"
)

// Client issues authenticated requests against the ShipStation API and
// decodes JSON responses into generic values. Transport and HTTP failures
// are mapped to the typed errors in the shipping package.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	// maxResponseBytes caps response bodies; lowered in tests.
	maxResponseBytes int64
}

// NewClient creates a ShipStation API client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger:           logger,
		maxResponseBytes: maxResponseSize,
	}, nil
}

// HasCredentials reports whether the client can authenticate.
func (c *Client) HasCredentials() bool {
	return c.config.HasCredentials()
}

// Request performs one HTTP call against the API. query may be nil; body,
// when non-nil, is marshaled as JSON. The decoded response is a
// map[string]any for JSON objects or a []any for JSON arrays; a body that is
// not valid JSON is preserved as {"raw": "<text>"} rather than discarded.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	if !c.config.HasCredentials() {
		return nil, shipping.ErrCredentialsMissing
	}

	reqURL := strings.TrimRight(c.config.APIBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("shipstation: failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("shipstation: failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.APIKey, c.config.APISecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logRequest(method, reqURL, bodyBytes)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError(method, reqURL, err)
		return nil, &shipping.TransportError{Err: err}
	}
	defer resp.Body.Close()

	// Read one byte past the cap so an oversized body is detected and
	// rejected outright instead of being truncated into a smaller page.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		c.logError(method, reqURL, err)
		return nil, &shipping.TransportError{Err: err}
	}
	if int64(len(raw)) > c.maxResponseBytes {
		tooLarge := &shipping.TransportError{Err: shipping.ErrResponseTooLarge}
		c.logError(method, reqURL, tooLarge)
		return nil, tooLarge
	}

	if resp.StatusCode >= 400 {
		apiErr := newRemoteAPIError(resp.StatusCode, raw)
		c.logError(method, reqURL, apiErr)
		return nil, apiErr
	}

	c.logResponse(method, reqURL, resp.StatusCode, raw)

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Non-conformant remote response; keep the payload instead of failing.
		return map[string]any{"raw": string(raw)}, nil
	}
	return decoded, nil
}

// RequestObject is Request constrained to a JSON object response. Endpoints
// documented to return objects use this; a non-object payload surfaces under
// the raw sentinel key.
func (c *Client) RequestObject(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	decoded, err := c.Request(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if obj, ok := decoded.(map[string]any); ok {
		return obj, nil
	}
	buf, _ := json.Marshal(decoded)
	return map[string]any{"raw": string(buf)}, nil
}

// newRemoteAPIError decodes an HTTP error body, extracting the API's Message
// field when the body is a JSON object.
func newRemoteAPIError(status int, raw []byte) *shipping.RemoteAPIError {
	apiErr := &shipping.RemoteAPIError{Status: status, RawBody: string(raw)}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		if msg, ok := decoded["Message"].(string); ok {
			apiErr.Message = msg
		}
	}
	if apiErr.Message == "" && len(raw) > 0 {
		apiErr.Message = truncate(string(raw), logBodyLimit)
	}
	return apiErr
}

func (c *Client) logRequest(method, url string, body []byte) {
	if !c.config.Logging {
		return
	}
	fields := []zap.Field{
		zap.String("method", strings.ToUpper(method)),
		zap.String("url", url),
	}
	if len(body) > 0 {
		fields = append(fields, zap.String("body", truncate(string(body), logBodyLimit)))
	}
	c.logger.Debug("ShipStation request", fields...)
}

func (c *Client) logResponse(method, url string, status int, raw []byte) {
	if !c.config.Logging {
		return
	}
	c.logger.Debug("ShipStation response",
		zap.String("method", strings.ToUpper(method)),
		zap.String("url", url),
		zap.Int("status", status),
		zap.String("body", truncate(string(raw), logBodyLimit)),
	)
}

func (c *Client) logError(method, url string, err error) {
	if !c.config.Logging {
		return
	}
	c.logger.Warn("ShipStation request failed",
		zap.String("method", strings.ToUpper(method)),
		zap.String("url", url),
		zap.Error(err),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
