package domain

import "time"

// BillerCategory groups billers for listing.
type BillerCategory string

const (
	CategoryUtilities  BillerCategory = "utilities"
	CategoryTelecom    BillerCategory = "telecom"
	CategoryInsurance  BillerCategory = "insurance"
	CategoryCreditCard BillerCategory = "credit_card"
	CategoryOther      BillerCategory = "other"
)

// BillerStatus controls whether a biller accepts payments.
type BillerStatus string

const (
	BillerActive   BillerStatus = "active"
	BillerInactive BillerStatus = "inactive"
)

// Biller is an external payee. Payments to a biller leave the system of record.
type Biller struct {
	BillerID     string         `json:"billerId"`
	Name         string         `json:"name"`
	Category     BillerCategory `json:"category"`
	Status       BillerStatus   `json:"status"`
	CurrencyCode string         `json:"currencyCode"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// IsActive reports whether the biller accepts payments.
func (b Biller) IsActive() bool {
	return b.Status == BillerActive
}

// SavedBiller is a biller bookmarked by a user together with their customer reference at that biller.
type SavedBiller struct {
	UserID            string    `json:"userId"`
	BillerID          string    `json:"billerId"`
	Nickname          string    `json:"nickname"`
	CustomerReference string    `json:"customerReference"`
	CreatedAt         time.Time `json:"createdAt"`
	Biller            *Biller   `json:"biller,omitempty"`
}

// PaymentReceipt summarises a bill payment for the payer.
type PaymentReceipt struct {
	ReceiptNumber string            `json:"receiptNumber"`
	TransactionID string            `json:"transactionId"`
	AccountID     string            `json:"accountId"`
	BillerID      string            `json:"billerId"`
	BillerName    string            `json:"billerName"`
	Amount        string            `json:"amount"`
	CurrencyCode  string            `json:"currencyCode"`
	Reference     string            `json:"reference"`
	Status        TransactionStatus `json:"status"`
	ScheduledDate *time.Time        `json:"scheduledDate,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	ProcessedAt   *time.Time        `json:"processedAt,omitempty"`
}
