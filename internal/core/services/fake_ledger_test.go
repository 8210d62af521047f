package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fakeTx stands in for a database transaction. Only the ledger below ever inspects it.
type fakeTx struct {
	pgx.Tx
	accounts map[string]*domain.Account
	records  map[string]*domain.TransactionRecord
	inserted []string
	done     bool
}

// fakeLedger is an in-memory store with row locks held until commit or rollback.
// Writes are staged on the fakeTx and only become visible on commit.
type fakeLedger struct {
	mu          sync.Mutex
	accounts    map[string]domain.Account
	records     map[string]domain.TransactionRecord
	billers     map[string]domain.Biller
	currencies  map[string]domain.Currency
	accountLock map[string]*sync.Mutex
	recordLock  map[string]*sync.Mutex
	seq         int64

	// fault, when set, is consulted before each write and may fail it.
	fault func(op, id string) error
}

var (
	_ portsrepo.AccountRepositoryWithTx     = (*fakeLedger)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*fakeLedger)(nil)
	_ portsrepo.BillerReader                = (*fakeLedger)(nil)
	_ portsrepo.CurrencyReader              = (*fakeLedger)(nil)
)

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:    map[string]domain.Account{},
		records:     map[string]domain.TransactionRecord{},
		billers:     map[string]domain.Biller{},
		currencies:  map[string]domain.Currency{"USD": {CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}, "EUR": {CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2}},
		accountLock: map[string]*sync.Mutex{},
		recordLock:  map[string]*sync.Mutex{},
	}
}

func (l *fakeLedger) addAccount(id, userID, currency string, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[id] = domain.Account{
		AccountID:    id,
		UserID:       userID,
		Name:         id,
		AccountType:  domain.Checking,
		CurrencyCode: currency,
		Status:       domain.AccountActive,
		Balance:      decimal.NewFromInt(balance),
		HoldAmount:   decimal.Zero,
	}
}

func (l *fakeLedger) addBiller(id, currency string, status domain.BillerStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.billers[id] = domain.Biller{
		BillerID:     id,
		Name:         "Biller " + id,
		Category:     domain.CategoryUtilities,
		CurrencyCode: currency,
		Status:       status,
	}
}

func (l *fakeLedger) setStatus(id string, status domain.AccountStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.accounts[id]
	acc.Status = status
	l.accounts[id] = acc
}

func (l *fakeLedger) account(id string) domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[id]
}

func (l *fakeLedger) total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := decimal.Zero
	for _, acc := range l.accounts {
		sum = sum.Add(acc.Balance)
	}
	return sum
}

func (l *fakeLedger) committedRecords() []domain.TransactionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.TransactionRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec)
	}
	return out
}

func (l *fakeLedger) recordCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *fakeLedger) rowLock(locks map[string]*sync.Mutex, id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := locks[id]
	if !ok {
		m = &sync.Mutex{}
		locks[id] = m
	}
	return m
}

func (l *fakeLedger) checkFault(op, id string) error {
	if l.fault == nil {
		return nil
	}
	return l.fault(op, id)
}

func asFake(tx pgx.Tx) *fakeTx {
	ft, ok := tx.(*fakeTx)
	if !ok {
		panic("unexpected transaction type")
	}
	return ft
}

// --- TransactionManager ---

func (l *fakeLedger) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{
		accounts: map[string]*domain.Account{},
		records:  map[string]*domain.TransactionRecord{},
	}, nil
}

func (l *fakeLedger) Commit(ctx context.Context, tx pgx.Tx) error {
	ft := asFake(tx)
	if ft.done {
		return pgx.ErrTxClosed
	}
	if err := l.checkFault("Commit", ""); err != nil {
		return err
	}
	l.mu.Lock()
	for id, acc := range ft.accounts {
		l.accounts[id] = *acc
	}
	for id, rec := range ft.records {
		l.records[id] = *rec
	}
	l.mu.Unlock()
	l.release(ft)
	return nil
}

func (l *fakeLedger) Rollback(ctx context.Context, tx pgx.Tx) error {
	ft := asFake(tx)
	if ft.done {
		return nil
	}
	l.release(ft)
	return nil
}

func (l *fakeLedger) release(ft *fakeTx) {
	ft.done = true
	for id := range ft.accounts {
		l.rowLock(l.accountLock, id).Unlock()
	}
	for id := range ft.records {
		if !contains(ft.inserted, id) {
			l.rowLock(l.recordLock, id).Unlock()
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --- AccountRepository ---

func (l *fakeLedger) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (l *fakeLedger) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Account
	for _, acc := range l.accounts {
		if acc.UserID == userID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (l *fakeLedger) SaveAccount(ctx context.Context, account domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	l.accounts[account.AccountID] = account
	return nil
}

func (l *fakeLedger) UpdateAccountStatus(ctx context.Context, tx pgx.Tx, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	acc, err := l.staged(tx, accountID)
	if err != nil {
		return err
	}
	acc.Status = status
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	return nil
}

func (l *fakeLedger) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	ft := asFake(tx)
	if acc, ok := ft.accounts[accountID]; ok {
		copied := *acc
		return &copied, nil
	}
	l.mu.Lock()
	_, exists := l.accounts[accountID]
	l.mu.Unlock()
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	l.rowLock(l.accountLock, accountID).Lock()

	l.mu.Lock()
	acc := l.accounts[accountID]
	l.mu.Unlock()
	ft.accounts[accountID] = &acc
	copied := acc
	return &copied, nil
}

func (l *fakeLedger) staged(tx pgx.Tx, accountID string) (*domain.Account, error) {
	acc, ok := asFake(tx).accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s written without a lock", accountID)
	}
	return acc, nil
}

func (l *fakeLedger) AdjustBalance(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := l.checkFault("AdjustBalance", accountID); err != nil {
		return decimal.Zero, err
	}
	acc, err := l.staged(tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	next := acc.Balance.Add(delta)
	if next.LessThan(acc.HoldAmount) {
		return decimal.Zero, apperrors.Internal("balance invariant violated", fmt.Errorf("balance of %s would drop below held funds", accountID))
	}
	acc.Balance = next
	return next, nil
}

func (l *fakeLedger) AdjustHold(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := l.checkFault("AdjustHold", accountID); err != nil {
		return decimal.Zero, err
	}
	acc, err := l.staged(tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	next := acc.HoldAmount.Add(delta)
	if next.IsNegative() || next.GreaterThan(acc.Balance) {
		return decimal.Zero, apperrors.Internal("hold invariant violated", fmt.Errorf("hold on %s out of range", accountID))
	}
	acc.HoldAmount = next
	return next, nil
}

// --- TransactionRepository ---

func (l *fakeLedger) InsertTransactionRecord(ctx context.Context, tx pgx.Tx, record domain.TransactionRecord) (*domain.TransactionRecord, error) {
	if err := l.checkFault("InsertTransactionRecord", record.TransactionID); err != nil {
		return nil, err
	}
	ft := asFake(tx)
	l.mu.Lock()
	l.seq++
	record.Sequence = l.seq
	l.mu.Unlock()
	ft.records[record.TransactionID] = &record
	ft.inserted = append(ft.inserted, record.TransactionID)
	copied := record
	return &copied, nil
}

func (l *fakeLedger) GetTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.TransactionRecord, error) {
	ft := asFake(tx)
	if rec, ok := ft.records[transactionID]; ok {
		copied := *rec
		return &copied, nil
	}
	l.mu.Lock()
	_, exists := l.records[transactionID]
	l.mu.Unlock()
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	l.rowLock(l.recordLock, transactionID).Lock()

	l.mu.Lock()
	rec := l.records[transactionID]
	l.mu.Unlock()
	ft.records[transactionID] = &rec
	copied := rec
	return &copied, nil
}

func (l *fakeLedger) UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus, processedAt *time.Time) error {
	if err := l.checkFault("UpdateTransactionStatus", transactionID); err != nil {
		return err
	}
	rec, ok := asFake(tx).records[transactionID]
	if !ok {
		return fmt.Errorf("record %s written without a lock", transactionID)
	}
	if rec.Status != from || !from.CanTransitionTo(to) {
		return apperrors.InvalidState("cannot move %s from %s to %s", transactionID, rec.Status, to)
	}
	rec.Status = to
	rec.ProcessedAt = processedAt
	return nil
}

func (l *fakeLedger) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

func (l *fakeLedger) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.TransactionRecord
	for _, rec := range l.records {
		if !rec.Touches(accountID) {
			continue
		}
		if filter.Type != nil && rec.TransactionType != *filter.Type {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil, nil
}

func (l *fakeLedger) ListScheduledByUser(ctx context.Context, userID string) ([]domain.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.TransactionRecord
	for _, rec := range l.records {
		if rec.CreatedBy == userID && rec.Status == domain.StatusScheduled {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (l *fakeLedger) FindDueScheduledPayments(ctx context.Context, now time.Time, limit int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []string
	for id, rec := range l.records {
		if rec.Status == domain.StatusScheduled && rec.ScheduledDate != nil && !rec.ScheduledDate.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// --- Biller and currency lookups ---

func (l *fakeLedger) FindBillerByID(ctx context.Context, billerID string) (*domain.Biller, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.billers[billerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (l *fakeLedger) ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Biller
	for _, b := range l.billers {
		if category == nil || b.Category == *category {
			out = append(out, b)
		}
	}
	return out, nil
}

func (l *fakeLedger) ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error) {
	return nil, nil
}

func (l *fakeLedger) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (l *fakeLedger) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Currency, 0, len(l.currencies))
	for _, c := range l.currencies {
		out = append(out, c)
	}
	return out, nil
}
