package models

import "time"

// AuditLog represents a row of the append-only audit_logs table.
type AuditLog struct {
	AuditID   string    `db:"audit_id"`
	EventType string    `db:"event_type"`
	UserID    string    `db:"user_id"`
	EntityID  string    `db:"entity_id"`
	Data      []byte    `db:"data"` // JSONB
	CreatedAt time.Time `db:"created_at"`
}
