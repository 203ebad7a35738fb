// Package upstream is the typed HTTP client for the two backend services
// the dashboard sits in front of: the admin API (orders, coupons, products,
// auth) and the storefront API (home CMS, order detail aggregate).
//
// Calls are terminal: a failure is returned to the caller as-is, with no
// retry or backoff. The caller decides how to surface it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Error is a non-success reply from an upstream service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// Envelope is the {status, message, data} reply shape used by the product
// and coupon endpoints. status "Y" means success; anything else is a
// failure even on HTTP 200.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

const envelopeOK = "Y"

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL, prefix string, hc *http.Client) *client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/") + prefix,
		http:    hc,
	}
}

// do issues one request and returns the status code and raw body.
// A nil body means no request body at all, matching the approve/reject
// call shape.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return 0, nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, buf.Bytes(), nil
}

// call performs a request and enforces a 2xx reply, returning the raw body.
func (c *client) call(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	status, data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &Error{StatusCode: status, Message: errorMessage(data)}
	}
	return data, nil
}

// getJSON fetches and decodes a bare (non-envelope) JSON reply.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// callEnvelope performs a request against an envelope endpoint and
// returns the data member on success.
func (c *client) callEnvelope(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	status, data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, &Error{StatusCode: status}
		}
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}

	if env.Status != envelopeOK {
		return nil, &Error{StatusCode: status, Message: env.Message}
	}

	return env.Data, nil
}

// errorMessage pulls a human-readable message out of an error reply,
// tolerating both {"error": ...} and {"message": ...} shapes.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// AdminAPI talks to the privileged admin service.
type AdminAPI struct {
	c *client
}

// NewAdminAPI builds a client from the admin service root URL
// (e.g. http://localhost:8081); the /api/admin prefix is appended here.
func NewAdminAPI(baseURL string, hc *http.Client) *AdminAPI {
	return &AdminAPI{c: newClient(baseURL, "/api/admin", hc)}
}

// StorefrontAPI talks to the storefront service, which hosts the home
// CMS endpoints and the order detail aggregate.
type StorefrontAPI struct {
	c *client
}

// NewStorefrontAPI builds a client from the storefront service root URL
// (e.g. http://localhost:8080); the /api prefix is appended here.
func NewStorefrontAPI(baseURL string, hc *http.Client) *StorefrontAPI {
	return &StorefrontAPI{c: newClient(baseURL, "/api", hc)}
}
