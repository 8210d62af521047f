package services

import (
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
)

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(repos portsrepo.RepositoryProvider, runner *AsyncRunner, posthog *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	notifier := NewNotificationDispatcher(repos.OutboxRepo)
	audit := NewAuditSink(repos.AuditRepo, posthog)

	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo, repos.TransactionRepo,
			WithCurrencyRepository(repos.CurrencyRepo),
			WithAccountAudit(audit, runner),
		),
		Transfer: NewTransferService(repos.AccountRepo, repos.TransactionRepo,
			WithBillerRepository(repos.BillerRepo),
			WithTransferCurrencyRepository(repos.CurrencyRepo),
			WithNotifier(notifier),
			WithAuditSink(audit),
			WithAsyncRunner(runner),
		),
		Biller:   NewBillerService(repos.BillerRepo, repos.AccountRepo, repos.TransactionRepo, repos.CurrencyRepo),
		Notifier: notifier,
		Audit:    audit,
	}
}
