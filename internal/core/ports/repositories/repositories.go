package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryWithTx
	TransactionRepo TransactionRepositoryFacade
	CurrencyRepo    CurrencyRepositoryFacade
	BillerRepo      BillerRepositoryFacade
	OutboxRepo      NotificationOutbox
	AuditRepo       AuditRepository
	IdempotencyRepo IdempotencyRepository
}
