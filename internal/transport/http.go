// Package transport provides the HTTP transport used to reach the exchange.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"gmocoin/pkg/core"
)

// Client wraps a resty HTTP client with logging and configuration.
// It never retries on its own: retry policy belongs to the executor.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

// Config holds the transport settings.
type Config struct {
	Timeout time.Duration `validate:"min=1ms"`
}

// Response represents an HTTP response with its status code and body.
type Response struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int

	// Body contains the raw response body bytes.
	Body []byte
}

// NewClient creates a new HTTP client with the specified configuration.
// Bodies are passed through as raw bytes; encoding and decoding happen upstream.
func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)
	client.SetHeader("Content-Type", "application/json")
	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Send executes one HTTP request. A body, when present, is sent byte for byte.
func (c *Client) Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, core.ErrClientClosed
	}

	r := c.client.R().SetContext(ctx)
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	if body != nil {
		r.SetBody(body)
	}

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported http method: %s", method)
	}

	resp, err := r.Execute(method, url)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("url", url).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	raw := resp.Bytes()
	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode()).
		Int("size", len(raw)).
		Msg("http response")

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       raw,
	}, nil
}

// Close releases idle connections. Further sends fail with core.ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// IsSuccess reports the only status the exchange uses for answered calls.
func (r *Response) IsSuccess() bool {
	return r.StatusCode == http.StatusOK
}
