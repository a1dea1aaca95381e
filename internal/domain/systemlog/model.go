package systemlog

import (
	"time"

	"github.com/google/uuid"
)

// Entry is an append-only record of a domain-level action: who did what to
// which entity, with free-form metadata for the details that do not fit the
// fixed columns.
type Entry struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	Action      string                 `db:"action" json:"action"`
	EntityType  string                 `db:"entity_type" json:"entity_type"`
	EntityID    *uuid.UUID             `db:"entity_id" json:"entity_id,omitempty"`
	PerformedBy *uuid.UUID             `db:"performed_by" json:"performed_by,omitempty"`
	Metadata    map[string]interface{} `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
}
