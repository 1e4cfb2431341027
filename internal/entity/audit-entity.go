package entity

import "time"

// AuditEntry records the field-level diff of one mutating operation.
type AuditEntry struct {
	ID           string                 `json:"id"`
	ActorID      string                 `json:"actor_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Changes      map[string]FieldChange `json:"changes"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

const (
	ResourceCase = "case"
	ResourceTask = "task"
)
