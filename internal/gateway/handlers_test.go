package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wearly/storefront-admin/internal/domain"
	"github.com/wearly/storefront-admin/internal/upstream"
)

type fakeCache struct {
	sections      []domain.HomeSection
	hasData       bool
	puts          int
	invalidations int
}

func (f *fakeCache) Get(context.Context) ([]domain.HomeSection, bool, error) {
	if !f.hasData {
		return nil, false, nil
	}
	return f.sections, true, nil
}

func (f *fakeCache) Put(_ context.Context, sections []domain.HomeSection) error {
	f.sections = sections
	f.hasData = true
	f.puts++
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.sections = nil
	f.hasData = false
	f.invalidations++
	return nil
}

type fakePublisher struct {
	keys   []string
	events []domain.ActivityEvent
}

func (f *fakePublisher) Publish(_ context.Context, key string, event any) error {
	f.keys = append(f.keys, key)
	f.events = append(f.events, event.(domain.ActivityEvent))
	return nil
}

func newTestHandler(adminSrv, storefrontSrv *httptest.Server, cache SectionCache, pub ActivityPublisher) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var admin *upstream.AdminAPI
	if adminSrv != nil {
		admin = upstream.NewAdminAPI(adminSrv.URL, adminSrv.Client())
	}
	var storefront *upstream.StorefrontAPI
	if storefrontSrv != nil {
		storefront = upstream.NewStorefrontAPI(storefrontSrv.URL, storefrontSrv.Client())
	}

	return NewHandler(admin, storefront, nil, cache, pub, nil, logger)
}

func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/orders", h.HandleListOrders)
	r.Get("/api/orders/{orderID}", h.HandleOrderDetails)
	r.Put("/api/orders/{orderID}/approve", h.HandleApproveOrder)
	r.Put("/api/orders/{orderID}/reject", h.HandleRejectOrder)
	r.Post("/api/orders/{orderID}/ship", h.HandleShipOrder)
	r.Put("/api/orders/{orderID}/status", h.HandleUpdateOrderStatus)
	r.Post("/api/coupons", h.HandleCreateCoupon)
	r.Get("/api/products", h.HandleListProducts)
	r.Get("/api/home-cms/sections", h.HandleListSections)
	r.Get("/api/home-cms/sections/{sectionID}", h.HandleGetSection)
	r.Delete("/api/home-cms/sections/{sectionID}", h.HandleDeleteSection)
	r.Post("/api/home-cms/sections", h.HandleCreateSection)
	r.Post("/api/home-cms/sections/{sectionID}/items", h.HandleCreateSectionItem)
	r.Post("/api/auth/forgot-password", h.HandleAuth)
	return r
}

func TestHandleOrderDetails(t *testing.T) {
	tests := []struct {
		name            string
		status          domain.OrderStatus
		wantTransitions []string
		wantActions     []string
	}{
		{"placed offers ship", domain.OrderStatusPlaced, []string{"SHIPPED"}, []string{"ship"}},
		{"requested offers approve and reject", domain.OrderStatusRequested, []string{}, []string{"approve", "reject"}},
		{"delivered is terminal", domain.OrderStatusDelivered, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/orders/details/42" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				details := domain.OrderDetails{
					Order: domain.Order{OrderID: 42, Amount: 99.5, Status: tt.status},
				}
				_ = json.NewEncoder(w).Encode(details)
			}))
			defer storefrontSrv.Close()

			h := newTestHandler(nil, storefrontSrv, nil, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/orders/42", nil)
			rec := httptest.NewRecorder()
			testRouter(h).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var resp struct {
				Order              domain.Order `json:"order"`
				AllowedTransitions []string     `json:"allowed_transitions"`
				Actions            []string     `json:"actions"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if resp.AllowedTransitions == nil {
				t.Error("allowed_transitions should be present, not null")
			}
			if resp.Actions == nil {
				t.Error("actions should be present, not null")
			}
			if len(resp.AllowedTransitions) != len(tt.wantTransitions) {
				t.Fatalf("expected transitions %v, got %v", tt.wantTransitions, resp.AllowedTransitions)
			}
			for i, want := range tt.wantTransitions {
				if resp.AllowedTransitions[i] != want {
					t.Errorf("transition %d: expected %s, got %s", i, want, resp.AllowedTransitions[i])
				}
			}
			if len(resp.Actions) != len(tt.wantActions) {
				t.Fatalf("expected actions %v, got %v", tt.wantActions, resp.Actions)
			}
			for i, want := range tt.wantActions {
				if resp.Actions[i] != want {
					t.Errorf("action %d: expected %s, got %s", i, want, resp.Actions[i])
				}
			}
		})
	}
}

func TestHandleShipOrder(t *testing.T) {
	t.Run("rejects incomplete shipment payload without calling upstream", func(t *testing.T) {
		called := false
		adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer adminSrv.Close()

		h := newTestHandler(adminSrv, nil, nil, nil)

		body := `{"carrier": "DHL"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders/42/ship", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("upstream should not be called for an invalid payload")
		}
	})

	t.Run("ships and publishes activity", func(t *testing.T) {
		adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/admin/orders/42/ship" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "order shipped"})
		}))
		defer adminSrv.Close()

		pub := &fakePublisher{}
		h := newTestHandler(adminSrv, nil, nil, pub)

		body := `{"carrier": "DHL", "trackingNumber": "TRK-1", "estimatedDeliveryDate": "2026-09-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders/42/ship", strings.NewReader(body))
		req.Header.Set("X-Admin-User", "alice")
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(pub.events) != 1 {
			t.Fatalf("expected 1 activity event, got %d", len(pub.events))
		}
		event := pub.events[0]
		if event.Action != "order.ship" {
			t.Errorf("expected action order.ship, got %s", event.Action)
		}
		if event.Actor != "alice" {
			t.Errorf("expected actor alice, got %s", event.Actor)
		}
		if event.EntityID != "42" {
			t.Errorf("expected entity id 42, got %s", event.EntityID)
		}
		if pub.keys[0] != "order:42" {
			t.Errorf("expected key order:42, got %s", pub.keys[0])
		}
	})

	t.Run("surfaces upstream failure as 502 without activity", func(t *testing.T) {
		adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "order is not in PLACED status"})
		}))
		defer adminSrv.Close()

		pub := &fakePublisher{}
		h := newTestHandler(adminSrv, nil, nil, pub)

		body := `{"carrier": "DHL", "trackingNumber": "TRK-1", "estimatedDeliveryDate": "2026-09-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders/42/ship", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "order is not in PLACED status") {
			t.Errorf("expected upstream message in response, got %s", rec.Body.String())
		}
		if len(pub.events) != 0 {
			t.Errorf("no activity should be published on failure, got %d events", len(pub.events))
		}
	})
}

func TestHandleApproveOrder(t *testing.T) {
	adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/orders/7/approve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer adminSrv.Close()

	pub := &fakePublisher{}
	h := newTestHandler(adminSrv, nil, nil, pub)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/7/approve", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// An empty upstream reply still yields a JSON acknowledgement.
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("expected acknowledgement body, got %s", rec.Body.String())
	}
	if len(pub.events) != 1 || pub.events[0].Action != "order.approve" {
		t.Errorf("expected one order.approve event, got %+v", pub.events)
	}
}

func TestHandleCreateCoupon(t *testing.T) {
	t.Run("coerces numeric strings before forwarding", func(t *testing.T) {
		var gotBody map[string]any
		adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/admin/coupons" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("failed to decode upstream body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "Y", "message": "created"})
		}))
		defer adminSrv.Close()

		h := newTestHandler(adminSrv, nil, nil, &fakePublisher{})

		body := `{
			"code": "SUMMER25",
			"discountType": "P",
			"value": "25",
			"minPurchase": "100.50",
			"usageLimit": "3",
			"validFrom": "2026-09-01",
			"validTill": "2026-09-30"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/coupons", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := gotBody["value"]; got != 25.0 {
			t.Errorf("expected value forwarded as number 25, got %v", got)
		}
		if got := gotBody["minPurchase"]; got != 100.50 {
			t.Errorf("expected minPurchase forwarded as number 100.5, got %v", got)
		}
		if got := gotBody["usageLimit"]; got != 3.0 {
			t.Errorf("expected usageLimit forwarded as number 3, got %v", got)
		}
	})

	t.Run("rejects non-numeric value", func(t *testing.T) {
		called := false
		adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer adminSrv.Close()

		h := newTestHandler(adminSrv, nil, nil, nil)

		body := `{"code": "X", "discountType": "P", "value": "not-a-number", "validFrom": "a", "validTill": "b"}`
		req := httptest.NewRequest(http.MethodPost, "/api/coupons", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("upstream should not be called for garbage input")
		}
	})

	t.Run("rejects unknown discount type", func(t *testing.T) {
		h := newTestHandler(nil, nil, nil, nil)

		body := `{"code": "X", "discountType": "Z", "value": 10, "validFrom": "a", "validTill": "b"}`
		req := httptest.NewRequest(http.MethodPost, "/api/coupons", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleListProducts(t *testing.T) {
	var gotQuery map[string][]string
	adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "Y",
			"data":   []map[string]any{{"product_id": 1, "name": "Tee"}},
		})
	}))
	defer adminSrv.Close()

	h := newTestHandler(adminSrv, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?gender=M", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := gotQuery["gender"]; len(got) != 1 || got[0] != "M" {
		t.Errorf("expected gender=M forwarded, got %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("expected default limit 10, got %v", got)
	}
	// Unset filters must not appear at all.
	for _, param := range []string{"categoryId", "minBasePrice", "maxBasePrice", "minDiscountedPrice", "maxDiscountedPrice"} {
		if _, ok := gotQuery[param]; ok {
			t.Errorf("parameter %s should not be forwarded when unset", param)
		}
	}
}

func TestSectionCaching(t *testing.T) {
	t.Run("serves listing from cache without touching upstream", func(t *testing.T) {
		upstreamCalls := 0
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			upstreamCalls++
		}))
		defer storefrontSrv.Close()

		cached := &fakeCache{
			hasData:  true,
			sections: []domain.HomeSection{{SectionID: 1, Type: "banner", Position: 1}},
		}
		h := newTestHandler(nil, storefrontSrv, cached, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/home-cms/sections", nil)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if upstreamCalls != 0 {
			t.Errorf("expected no upstream calls on cache hit, got %d", upstreamCalls)
		}
	})

	t.Run("fills cache on miss", func(t *testing.T) {
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/admin/home-cms/section" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode([]domain.HomeSection{{SectionID: 2, Type: "carousel"}})
		}))
		defer storefrontSrv.Close()

		cached := &fakeCache{}
		h := newTestHandler(nil, storefrontSrv, cached, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/home-cms/sections", nil)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cached.puts != 1 {
			t.Errorf("expected 1 cache write, got %d", cached.puts)
		}
	})

	t.Run("serves single section from cached listing", func(t *testing.T) {
		cached := &fakeCache{
			hasData: true,
			sections: []domain.HomeSection{
				{SectionID: 1, Type: "banner"},
				{SectionID: 2, Type: "carousel"},
			},
		}
		h := newTestHandler(nil, nil, cached, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/home-cms/sections/2", nil)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var section domain.HomeSection
		if err := json.Unmarshal(rec.Body.Bytes(), &section); err != nil {
			t.Fatalf("failed to decode section: %v", err)
		}
		if section.SectionID != 2 || section.Type != "carousel" {
			t.Errorf("expected section 2 carousel, got %+v", section)
		}
	})

	t.Run("unknown section is a 404", func(t *testing.T) {
		cached := &fakeCache{
			hasData:  true,
			sections: []domain.HomeSection{{SectionID: 1, Type: "banner"}},
		}
		h := newTestHandler(nil, nil, cached, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/home-cms/sections/99", nil)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("mutations invalidate the cache", func(t *testing.T) {
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer storefrontSrv.Close()

		cached := &fakeCache{hasData: true, sections: []domain.HomeSection{{SectionID: 7}}}
		pub := &fakePublisher{}
		h := newTestHandler(nil, storefrontSrv, cached, pub)

		req := httptest.NewRequest(http.MethodDelete, "/api/home-cms/sections/7", nil)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cached.invalidations != 1 {
			t.Errorf("expected 1 invalidation, got %d", cached.invalidations)
		}
		if len(pub.events) != 1 || pub.events[0].Action != "homecms.section.delete" {
			t.Errorf("expected one homecms.section.delete event, got %+v", pub.events)
		}
	})

	t.Run("section creation records the created section id", func(t *testing.T) {
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"sectionId": 12, "type": "banner"})
		}))
		defer storefrontSrv.Close()

		pub := &fakePublisher{}
		h := newTestHandler(nil, storefrontSrv, nil, pub)

		body := `{"type": "banner", "position": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/home-cms/sections", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(pub.events) != 1 {
			t.Fatalf("expected 1 activity event, got %d", len(pub.events))
		}
		if pub.events[0].EntityID != "12" {
			t.Errorf("expected entity id 12, got %s", pub.events[0].EntityID)
		}
		if pub.keys[0] != "section:12" {
			t.Errorf("expected key section:12, got %s", pub.keys[0])
		}
	})

	t.Run("section creation without an id in the reply records a sentinel", func(t *testing.T) {
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer storefrontSrv.Close()

		pub := &fakePublisher{}
		h := newTestHandler(nil, storefrontSrv, nil, pub)

		body := `{"type": "banner"}`
		req := httptest.NewRequest(http.MethodPost, "/api/home-cms/sections", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if len(pub.events) != 1 || pub.events[0].EntityID != "new" {
			t.Errorf("expected entity id new, got %+v", pub.events)
		}
	})

	t.Run("item creation coerces positions and invalidates", func(t *testing.T) {
		var gotBody map[string]any
		storefrontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/admin/home-cms/section/3/item" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("failed to decode upstream body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer storefrontSrv.Close()

		cached := &fakeCache{hasData: true}
		h := newTestHandler(nil, storefrontSrv, cached, nil)

		body := `{"heading": "New drop", "productId": "15", "position": "2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/home-cms/sections/3/items", strings.NewReader(body))
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := gotBody["productId"]; got != 15.0 {
			t.Errorf("expected productId forwarded as number 15, got %v", got)
		}
		if got := gotBody["position"]; got != 2.0 {
			t.Errorf("expected position forwarded as number 2, got %v", got)
		}
		if cached.invalidations != 1 {
			t.Errorf("expected 1 invalidation, got %d", cached.invalidations)
		}
	})
}

func TestHandleAuthForwardsQueryString(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/forgot-password" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "abc123" {
			t.Errorf("expected token=abc123 forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"otp sent"}`))
	}))
	defer authSrv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proxy := NewServiceProxy(authSrv.URL, authSrv.Client())
	h := NewHandler(nil, nil, proxy, nil, nil, nil, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password?token=abc123", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "otp sent") {
		t.Errorf("expected upstream body relayed, got %s", rec.Body.String())
	}
}
