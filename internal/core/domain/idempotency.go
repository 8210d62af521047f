package domain

import "time"

// IdempotencyRecord remembers the response produced for an Idempotency-Key.
// StatusCode is zero while the first request is still in flight.
type IdempotencyRecord struct {
	UserID       string
	Key          string
	RequestHash  string
	StatusCode   int
	ResponseBody []byte
	CreatedAt    time.Time
}

// Completed reports whether a response has been stored for the key.
func (r IdempotencyRecord) Completed() bool {
	return r.StatusCode != 0
}
