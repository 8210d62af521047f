package domain

import "time"

// AuditEventType names a recorded action.
type AuditEventType string

const (
	AuditTransferCompleted    AuditEventType = "TRANSFER_COMPLETED"
	AuditBillPaymentCompleted AuditEventType = "BILL_PAYMENT_COMPLETED"
	AuditBillPaymentScheduled AuditEventType = "BILL_PAYMENT_SCHEDULED"
	AuditBillPaymentCancelled AuditEventType = "BILL_PAYMENT_CANCELLED"
	AuditDeposit              AuditEventType = "DEPOSIT_COMPLETED"
	AuditWithdrawal           AuditEventType = "WITHDRAWAL_COMPLETED"
	AuditAccountCreated       AuditEventType = "ACCOUNT_CREATED"
	AuditAccountDeactivated   AuditEventType = "ACCOUNT_DEACTIVATED"
)

// AuditEvent is an append-only record of who did what.
type AuditEvent struct {
	AuditID   string         `json:"auditId"`
	EventType AuditEventType `json:"eventType"`
	UserID    string         `json:"userId"`
	EntityID  string         `json:"entityId"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}
