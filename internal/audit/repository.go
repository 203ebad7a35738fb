// Package audit persists the trail of privileged admin actions published
// by the gateway.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded admin action.
type Entry struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores one entry, assigning an id when none is set.
func (r *Repository) Insert(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.RecordedAt = time.Now().UTC()

	var detail any
	if len(entry.Detail) > 0 {
		detail = []byte(entry.Detail)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_activity (id, actor, action, entity, entity_id, detail, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.Actor, entry.Action, entry.Entity, entry.EntityID, detail, entry.OccurredAt, entry.RecordedAt)
	return err
}

// Recent returns the newest entries, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, entity_id, detail, occurred_at, recorded_at
		FROM admin_activity
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var detail sql.Null[[]byte]
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Entity, &entry.EntityID, &detail, &entry.OccurredAt, &entry.RecordedAt); err != nil {
			return nil, err
		}
		if detail.Valid {
			entry.Detail = json.RawMessage(detail.V)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ByEntity returns the trail for a single entity, oldest first.
func (r *Repository) ByEntity(ctx context.Context, entity, entityID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, entity_id, detail, occurred_at, recorded_at
		FROM admin_activity
		WHERE entity = $1 AND entity_id = $2
		ORDER BY occurred_at ASC
	`, entity, entityID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var detail sql.Null[[]byte]
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Entity, &entry.EntityID, &detail, &entry.OccurredAt, &entry.RecordedAt); err != nil {
			return nil, err
		}
		if detail.Valid {
			entry.Detail = json.RawMessage(detail.V)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
