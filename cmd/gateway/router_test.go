package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wearly/storefront-admin/internal/config"
	"github.com/wearly/storefront-admin/internal/gateway"
	"github.com/wearly/storefront-admin/internal/upstream"
)

func TestRouterShipRouteMethod(t *testing.T) {
	adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/orders/42/ship" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "order shipped"})
	}))
	defer adminSrv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := upstream.NewAdminAPI(adminSrv.URL, adminSrv.Client())
	handler := gateway.NewHandler(admin, nil, nil, nil, nil, nil, logger)

	cfg := &config.Gateway{}
	router := newRouter(cfg, handler, http.NotFoundHandler(), logger)

	body := `{"carrier": "DHL", "trackingNumber": "TRK-1", "estimatedDeliveryDate": "2026-09-10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/42/ship", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusMethodNotAllowed {
		t.Fatal("ship must be routed as POST")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
