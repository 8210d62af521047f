package pgsql

import (
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
		BillerRepo:      newPgxBillerRepository(dbPool),
		OutboxRepo:      newPgxNotificationRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
		IdempotencyRepo: newPgxIdempotencyRepository(dbPool),
	}
}
