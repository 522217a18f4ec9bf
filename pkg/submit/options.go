package submit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-orderform/pkg/metrics"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger attaches a structured logger to the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder to the handler.
func WithRecorder(rec metrics.Recorder) Option {
	return func(h *Handler) {
		if rec != nil {
			h.recorder = rec
		}
	}
}

// WithFallbackMessage overrides the failure message shown when the endpoint
// cannot be reached.
func WithFallbackMessage(message string) Option {
	return func(h *Handler) {
		if message != "" {
			h.fallback = message
		}
	}
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout bounds every order request. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) ClientOption {
	return func(c *HTTPClient) {
		if fn != nil {
			c.requestID = fn
		}
	}
}
