package models

import "time"

// IdempotencyKey represents a row of the idempotency_keys table.
// StatusCode and ResponseBody stay NULL until the first request completes.
type IdempotencyKey struct {
	UserID       string    `db:"user_id"`
	Key          string    `db:"idem_key"`
	RequestHash  string    `db:"request_hash"`
	StatusCode   *int      `db:"status_code"`
	ResponseBody []byte    `db:"response_body"`
	CreatedAt    time.Time `db:"created_at"`
}
