package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryWithTx interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, tx pgx.Tx, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) AdjustHold(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockNotificationDispatcher is a mock type for the NotificationDispatcher interface
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Enqueue(ctx context.Context, kind domain.NotificationKind, recipient string, payload map[string]any) error {
	args := m.Called(ctx, kind, recipient, payload)
	return args.Error(0)
}

// MockAuditSink is a mock type for the AuditSink interface
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Append(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockAuditRepository is a mock type for the AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockNotificationOutbox is a mock type for the NotificationOutbox interface
type MockNotificationOutbox struct {
	mock.Mock
}

func (m *MockNotificationOutbox) EnqueueJob(ctx context.Context, job domain.NotificationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotificationOutbox) ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.NotificationJob, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationJob), args.Error(1)
}

func (m *MockNotificationOutbox) MarkDelivered(ctx context.Context, jobID string, now time.Time) error {
	args := m.Called(ctx, jobID, now)
	return args.Error(0)
}

func (m *MockNotificationOutbox) MarkRetry(ctx context.Context, job domain.NotificationJob, deliveryErr error, now time.Time) error {
	args := m.Called(ctx, job, deliveryErr, now)
	return args.Error(0)
}
