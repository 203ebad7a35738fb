package gateway

import (
	"context"
	"io"
	"net/http"
)

// ServiceProxy forwards a request verbatim to an upstream base URL. Used
// for the auth endpoints, which the gateway relays without interpreting.
type ServiceProxy struct {
	baseURL string
	client  *http.Client
}

func NewServiceProxy(baseURL string, client *http.Client) *ServiceProxy {
	return &ServiceProxy{
		baseURL: baseURL,
		client:  client,
	}
}

func (p *ServiceProxy) Forward(ctx context.Context, r *http.Request, path string) (*http.Response, error) {
	u := p.baseURL + path
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, r.Body)
	if err != nil {
		return nil, err
	}

	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return p.client.Do(req)
}

// HandleAuth relays forgot/reset password calls to the admin service.
// The upstream owns OTP issuance and validation entirely.
func (h *Handler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authProxy.Forward(r.Context(), r, r.URL.Path)
	if err != nil {
		h.logger.Error("failed to forward auth request", "error", err, "path", r.URL.Path)
		h.writeError(w, http.StatusBadGateway, "upstream service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy auth response body", "error", err)
	}
}
