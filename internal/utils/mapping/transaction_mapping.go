package mapping

import (
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/models"
)

// ToModelTransaction converts a domain TransactionRecord to a model Transaction
func ToModelTransaction(d domain.TransactionRecord) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		Sequence:        d.Sequence,
		FromAccountID:   d.FromAccountID,
		ToAccountID:     d.ToAccountID,
		BillerID:        d.BillerID,
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		TransactionType: string(d.TransactionType),
		Status:          string(d.Status),
		Description:     d.Description,
		Reference:       d.Reference,
		ScheduledDate:   d.ScheduledDate,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
		ProcessedAt:     d.ProcessedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain TransactionRecord
func ToDomainTransaction(m models.Transaction) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID:   m.TransactionID,
		Sequence:        m.Sequence,
		FromAccountID:   m.FromAccountID,
		ToAccountID:     m.ToAccountID,
		BillerID:        m.BillerID,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		TransactionType: domain.TransactionType(m.TransactionType),
		Status:          domain.TransactionStatus(m.Status),
		Description:     m.Description,
		Reference:       m.Reference,
		ScheduledDate:   m.ScheduledDate,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
		ProcessedAt:     m.ProcessedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain TransactionRecords
func ToDomainTransactionSlice(ms []models.Transaction) []domain.TransactionRecord {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
