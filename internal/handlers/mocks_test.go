package handlers_test

import (
	"context"
	"sync"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) record(args mock.Arguments) (*domain.TransactionRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockTransferService) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, userID, req))
}

func (m *MockTransferService) Deposit(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, userID, accountID, req))
}

func (m *MockTransferService) Withdraw(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, userID, accountID, req))
}

func (m *MockTransferService) PayBill(ctx context.Context, userID string, req dto.PayBillRequest) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, userID, req))
}

func (m *MockTransferService) ExecuteScheduledPayment(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, transactionID))
}

func (m *MockTransferService) CancelScheduledPayment(ctx context.Context, userID string, transactionID string) (*domain.TransactionRecord, error) {
	return m.record(m.Called(ctx, userID, transactionID))
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountBalance(ctx context.Context, userID string, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockAccountService) GetTransactionHistory(ctx context.Context, userID string, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error) {
	args := m.Called(ctx, userID, accountID, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.TransactionRecord), next, args.Error(2)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BillerService ---
type MockBillerService struct {
	mock.Mock
}

func (m *MockBillerService) ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Biller), args.Error(1)
}

func (m *MockBillerService) ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedBiller), args.Error(1)
}

func (m *MockBillerService) SaveBiller(ctx context.Context, userID string, req dto.SaveBillerRequest) (*domain.SavedBiller, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedBiller), args.Error(1)
}

func (m *MockBillerService) RemoveSavedBiller(ctx context.Context, userID string, billerID string) error {
	return m.Called(ctx, userID, billerID).Error(0)
}

func (m *MockBillerService) ListBillPayments(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error) {
	args := m.Called(ctx, userID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.TransactionRecord), nil, args.Error(2)
}

func (m *MockBillerService) ListScheduledPayments(ctx context.Context, userID string) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

func (m *MockBillerService) GetPaymentReceipt(ctx context.Context, userID string, transactionID string) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

var _ portssvc.BillerSvc = (*MockBillerService)(nil)

// memoryIdempotencyStore keeps idempotency records in a map.
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*domain.IdempotencyRecord
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: map[string]*domain.IdempotencyRecord{}}
}

func (s *memoryIdempotencyStore) Reserve(_ context.Context, userID, key, requestHash string) (bool, *domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := userID + "/" + key
	if existing, ok := s.records[id]; ok {
		cp := *existing
		return false, &cp, nil
	}
	s.records[id] = &domain.IdempotencyRecord{UserID: userID, Key: key, RequestHash: requestHash}
	return true, nil, nil
}

func (s *memoryIdempotencyStore) Complete(_ context.Context, userID, key string, statusCode int, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[userID+"/"+key]
	rec.StatusCode = statusCode
	rec.ResponseBody = append([]byte(nil), body...)
	return nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID+"/"+key)
	return nil
}
