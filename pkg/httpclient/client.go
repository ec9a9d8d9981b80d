package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/richxcame/limo-booking/pkg/logger"
	"github.com/richxcame/limo-booking/pkg/middleware"
	"github.com/richxcame/limo-booking/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const maxResponseBytes = 1 << 20

// Client wraps http.Client with JSON helpers. Calls are made once; callers
// that want retries or breakers wrap them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tracerName string
}

// Option configures the HTTP client
type Option func(*Client)

// WithTracerName sets the tracer used for outgoing spans
func WithTracerName(name string) Option {
	return func(c *Client) {
		c.tracerName = name
	}
}

// WithHTTPClient swaps the underlying transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new HTTP client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    baseURL,
		tracerName: "httpclient",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get makes a GET request and returns the raw body
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	var body []byte
	url := c.baseURL + path

	_, err := tracing.TraceHTTPClient(ctx, c.tracerName, http.MethodGet, url, func(ctx context.Context) (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		injectCorrelationID(ctx, req)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 400 {
			return resp.StatusCode, &HTTPError{
				StatusCode: resp.StatusCode,
				Body:       string(respBody),
			}
		}

		body = respBody
		return resp.StatusCode, nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// GetJSON makes a GET request and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func injectCorrelationID(ctx context.Context, req *http.Request) {
	if ctx == nil || req == nil {
		return
	}

	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.CorrelationIDHeader, correlationID)
	}
}
