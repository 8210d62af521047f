package models

import "time"

// NotificationJob represents a row of the notification_jobs outbox table.
type NotificationJob struct {
	JobID         string    `db:"job_id"`
	Kind          string    `db:"kind"`
	Recipient     string    `db:"recipient"`
	Payload       []byte    `db:"payload"` // JSONB
	Status        string    `db:"status"`
	Attempts      int       `db:"attempts"`
	NextAttemptAt time.Time `db:"next_attempt_at"`
	LastError     *string   `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
