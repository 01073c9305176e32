// Package restapi is the thin request/response boundary to the hotel REST
// backend. It decodes the backend's {success, data, message, total} envelope
// and normalizes failures into the connectivity/application error taxonomy.
package restapi

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
)

// Envelope is the backend's uniform JSON response shape.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Total   int             `json:"total"`
}

// Client issues JSON requests against the backend base URL.
// Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// New returns a Client for the given base URL (e.g. "http://localhost:3000/api").
// Outgoing requests carry OTel trace propagation via the instrumented transport.
func New(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// Get issues a GET and returns the decoded envelope.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

// Post issues a POST with a JSON body and returns the decoded envelope.
// token, when non-empty, is sent as a bearer credential.
func (c *Client) Post(ctx context.Context, path string, body any, token string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, token)
}

// Put issues a PUT with an optional JSON body and returns the decoded envelope.
func (c *Client) Put(ctx context.Context, path string, body any, token string) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, token)
}

// GetAuthed issues a GET carrying a bearer credential.
func (c *Client) GetAuthed(ctx context.Context, path string, query url.Values, token string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, token)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string) (*Envelope, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("restapi: encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("restapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failure: no server response at all.
		c.log.WarnContext(ctx, "backend unreachable", "method", method, "url", u, "error", err)
		return nil, fmt.Errorf("%w: %s %s", ErrConnectivity, method, path)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response", ErrConnectivity)
	}

	var env Envelope
	if len(payload) > 0 {
		// A malformed body on an error status still maps to an APIError;
		// the status alone is enough to classify it.
		_ = json.Unmarshal(payload, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// Decode unmarshals the envelope's data payload into out.
func (e *Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("restapi: decode data: %w", err)
	}
	return nil
}

// Ping probes the backend with a cheap request; used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "/hotels", nil)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	return nil
}
