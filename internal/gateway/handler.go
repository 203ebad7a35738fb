// Package gateway is the HTTP surface of the admin dashboard. Handlers
// are thin: they validate and coerce input, delegate to the upstream
// services, and publish an activity event for every successful mutation.
// Business rules (transition legality, pricing, discount computation)
// stay upstream; failures are terminal and reported once, never retried.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wearly/storefront-admin/internal/domain"
	"github.com/wearly/storefront-admin/internal/telemetry"
	"github.com/wearly/storefront-admin/internal/upstream"
)

// actorHeader carries the acting admin's identity, set by the frontend.
const actorHeader = "X-Admin-User"

// SectionCache stores the last section listing so the edit view can read
// a section back by ID without a dedicated upstream endpoint.
type SectionCache interface {
	Get(ctx context.Context) ([]domain.HomeSection, bool, error)
	Put(ctx context.Context, sections []domain.HomeSection) error
	Invalidate(ctx context.Context) error
}

// ActivityPublisher emits admin action events. A nil publisher disables
// auditing without affecting any admin operation.
type ActivityPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	admin      *upstream.AdminAPI
	storefront *upstream.StorefrontAPI
	authProxy  *ServiceProxy
	sections   SectionCache
	publisher  ActivityPublisher
	metrics    *telemetry.Metrics
	logger     *slog.Logger
}

func NewHandler(
	admin *upstream.AdminAPI,
	storefront *upstream.StorefrontAPI,
	authProxy *ServiceProxy,
	sections SectionCache,
	publisher ActivityPublisher,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		admin:      admin,
		storefront: storefront,
		authProxy:  authProxy,
		sections:   sections,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// recordActivity publishes an audit event for a mutation that already
// succeeded upstream. Publish failures are logged and swallowed: the
// admin action must not fail because the audit trail is unavailable.
func (h *Handler) recordActivity(ctx context.Context, r *http.Request, action, entity, entityID string, detail any) {
	h.metrics.RecordAction(ctx, action)

	if h.publisher == nil {
		return
	}

	var raw json.RawMessage
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			h.logger.Error("failed to encode activity detail", "error", err, "action", action)
		} else {
			raw = data
		}
	}

	event := domain.ActivityEvent{
		ID:        uuid.New().String(),
		Actor:     actorFrom(r),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    raw,
		Timestamp: time.Now().UTC(),
	}

	if err := h.publisher.Publish(ctx, entity+":"+entityID, event); err != nil {
		h.logger.Error("failed to publish activity event", "error", err, "action", action, "entity_id", entityID)
	}
}

func actorFrom(r *http.Request) string {
	if actor := r.Header.Get(actorHeader); actor != "" {
		return actor
	}
	return "unknown"
}

// upstreamError converts any upstream failure into the gateway's single
// failure shape: 502 with a message. The dashboard shows it and stops.
func (h *Handler) upstreamError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.Error(logMsg, "error", err)

	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.Message != "" {
		h.writeError(w, http.StatusBadGateway, upErr.Message)
		return
	}
	h.writeError(w, http.StatusBadGateway, "upstream service unavailable")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeRaw relays an upstream response body verbatim, substituting a
// minimal acknowledgement when the upstream reply was empty.
func (h *Handler) writeRaw(w http.ResponseWriter, status int, data json.RawMessage) {
	if len(data) == 0 {
		h.writeJSON(w, status, map[string]string{"status": "ok"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
