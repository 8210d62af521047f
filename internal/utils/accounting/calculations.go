package accounting

import (
	"fmt"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Direction is how a record affects one particular account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// DirectionFor reports whether rec debits or credits accountID.
func DirectionFor(rec domain.TransactionRecord, accountID string) (Direction, error) {
	switch {
	case rec.FromAccountID != nil && *rec.FromAccountID == accountID:
		return Debit, nil
	case rec.ToAccountID != nil && *rec.ToAccountID == accountID:
		return Credit, nil
	default:
		return "", fmt.Errorf("transaction %s does not touch account %s", rec.TransactionID, accountID)
	}
}

// SignedAmount applies the sign of rec's effect on accountID: negative for debits,
// positive for credits. Records that have not settled have no effect.
func SignedAmount(rec domain.TransactionRecord, accountID string) (decimal.Decimal, error) {
	dir, err := DirectionFor(rec, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if rec.Status != domain.StatusCompleted {
		return decimal.Zero, nil
	}
	if dir == Debit {
		return rec.Amount.Neg(), nil
	}
	return rec.Amount, nil
}

// NetChange sums the settled effect of recs on accountID.
func NetChange(recs []domain.TransactionRecord, accountID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range recs {
		amt, err := SignedAmount(rec, accountID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amt)
	}
	return total, nil
}
