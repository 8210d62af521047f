package domain

import (
	"encoding/json"
	"time"
)

// NotificationKind names the event a user is notified about.
type NotificationKind string

const (
	NotifyTransferCompleted NotificationKind = "transfer.completed"
	NotifyTransferReceived  NotificationKind = "transfer.received"
	NotifyBillPaid          NotificationKind = "bill.paid"
	NotifyBillScheduled     NotificationKind = "bill.scheduled"
	NotifyBillCancelled     NotificationKind = "bill.cancelled"
	NotifyDeposit           NotificationKind = "account.deposit"
	NotifyWithdrawal        NotificationKind = "account.withdrawal"
)

// NotificationJobStatus tracks outbox delivery.
type NotificationJobStatus string

const (
	JobPending    NotificationJobStatus = "pending"
	JobProcessing NotificationJobStatus = "processing"
	JobDelivered  NotificationJobStatus = "delivered"
	JobFailed     NotificationJobStatus = "failed"
)

// MaxNotificationAttempts bounds delivery retries before a job is marked failed.
const MaxNotificationAttempts = 5

// NotificationJob is an outbox row awaiting delivery.
type NotificationJob struct {
	JobID         string                `json:"jobId"`
	Kind          NotificationKind      `json:"kind"`
	Recipient     string                `json:"recipient"`
	Payload       json.RawMessage       `json:"payload"`
	Status        NotificationJobStatus `json:"status"`
	Attempts      int                   `json:"attempts"`
	NextAttemptAt time.Time             `json:"nextAttemptAt"`
	LastError     string                `json:"lastError,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// RetryDelay is the linear backoff applied after a failed delivery attempt.
func (j NotificationJob) RetryDelay() time.Duration {
	return time.Duration(j.Attempts*10+10) * time.Second
}

// Exhausted reports whether the job has used all its attempts.
func (j NotificationJob) Exhausted() bool {
	return j.Attempts >= MaxNotificationAttempts
}
