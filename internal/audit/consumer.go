package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wearly/storefront-admin/internal/domain"
)

// EventHandler turns activity events from the broker into audit rows.
type EventHandler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewEventHandler(repo *Repository, logger *slog.Logger) *EventHandler {
	return &EventHandler{repo: repo, logger: logger}
}

// Handle decodes one event payload and persists it.
func (h *EventHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.ActivityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal activity event: %w", err)
	}

	entry := &Entry{
		ID:         event.ID,
		Actor:      event.Actor,
		Action:     event.Action,
		Entity:     event.Entity,
		EntityID:   event.EntityID,
		Detail:     event.Detail,
		OccurredAt: event.Timestamp,
	}

	if err := h.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	h.logger.Info("admin action recorded",
		"action", event.Action,
		"entity", event.Entity,
		"entity_id", event.EntityID,
		"actor", event.Actor,
	)
	return nil
}
