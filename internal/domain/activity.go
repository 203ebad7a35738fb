package domain

import (
	"encoding/json"
	"time"
)

// ActivityEvent records one privileged admin mutation. Published by the
// gateway after the upstream call succeeds, consumed by the audit service.
type ActivityEvent struct {
	ID        string          `json:"id"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
