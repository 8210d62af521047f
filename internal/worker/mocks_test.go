package worker_test

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) EnqueueJob(ctx context.Context, job domain.NotificationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockOutbox) ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.NotificationJob, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationJob), args.Error(1)
}

func (m *MockOutbox) MarkDelivered(ctx context.Context, jobID string, now time.Time) error {
	args := m.Called(ctx, jobID, now)
	return args.Error(0)
}

func (m *MockOutbox) MarkRetry(ctx context.Context, job domain.NotificationJob, deliveryErr error, now time.Time) error {
	args := m.Called(ctx, job, deliveryErr, now)
	return args.Error(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, job domain.NotificationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockTransactionReader struct {
	mock.Mock
}

func (m *MockTransactionReader) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionReader) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.TransactionRecord), next, args.Error(2)
}

func (m *MockTransactionReader) ListScheduledByUser(ctx context.Context, userID string) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionReader) FindDueScheduledPayments(ctx context.Context, now time.Time, limit int) ([]string, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBillPaymentService struct {
	mock.Mock
}

func (m *MockBillPaymentService) PayBill(ctx context.Context, userID string, req dto.PayBillRequest) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockBillPaymentService) ExecuteScheduledPayment(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockBillPaymentService) CancelScheduledPayment(ctx context.Context, userID string, transactionID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}
