package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderform/pkg/model"
)

// DefaultEndpoint is the order endpoint used when none is configured.
const DefaultEndpoint = "http://localhost:9009/api/order"

// DefaultTimeout bounds a single order request.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

// HTTPClient places orders by POSTing the JSON payload to an endpoint.
type HTTPClient struct {
	endpoint  string
	client    *http.Client
	timeout   time.Duration
	requestID func() string
}

var _ Collaborator = (*HTTPClient)(nil)

// NewHTTPClient returns a client for endpoint.
func NewHTTPClient(endpoint string, opts ...ClientOption) (*HTTPClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	c := &HTTPClient{
		endpoint:  endpoint,
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Endpoint reports the URL orders are sent to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

type orderResponse struct {
	Message string `json:"message"`
}

// PlaceOrder sends payload and returns the endpoint's message. A non-2xx
// answer yields *RejectedError; network and decoding failures wrap
// ErrTransport.
func (c *HTTPClient) PlaceOrder(ctx context.Context, payload model.OrderPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("submit: encode payload: %w", err)
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.requestID())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	var decoded orderResponse
	decodeErr := decodeResponse(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(decoded.Message)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", &RejectedError{Status: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrTransport, decodeErr)
	}
	return decoded.Message, nil
}

func decodeResponse(data []byte, out *orderResponse) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
