package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
)

// ScheduledPaymentRunner executes bill payments whose scheduled date has passed.
type ScheduledPaymentRunner struct {
	finder    portsrepo.TransactionReader
	payments  portssvc.BillPaymentSvc
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewScheduledPaymentRunner creates a runner polling every interval.
func NewScheduledPaymentRunner(finder portsrepo.TransactionReader, payments portssvc.BillPaymentSvc, logger *slog.Logger, interval time.Duration, batchSize int) *ScheduledPaymentRunner {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ScheduledPaymentRunner{
		finder:    finder,
		payments:  payments,
		logger:    logger.With(slog.String("worker", "scheduled_payments")),
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled.
func (r *ScheduledPaymentRunner) Run(ctx context.Context) error {
	r.logger.Info("Scheduled payment runner started", slog.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.RunOnce(ctx)
		select {
		case <-ctx.Done():
			r.logger.Info("Scheduled payment runner stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce executes every due payment found in one pass and returns how many settled.
// A payment already handled by another instance or cancelled meanwhile is skipped quietly.
func (r *ScheduledPaymentRunner) RunOnce(ctx context.Context) int {
	ids, err := r.finder.FindDueScheduledPayments(ctx, r.now(), r.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("Failed to find due payments", slog.String("error", err.Error()))
		}
		return 0
	}

	settled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		logger := r.logger.With(slog.String("transaction_id", id))
		rec, err := r.payments.ExecuteScheduledPayment(middleware.WithLogger(ctx, logger), id)
		switch {
		case err == nil:
			settled++
			logger.Info("Scheduled payment processed", slog.String("status", string(rec.Status)))
		case apperrors.KindOf(err) == apperrors.KindInvalidState:
			logger.Debug("Scheduled payment skipped", slog.String("reason", err.Error()))
		default:
			logger.Error("Scheduled payment failed", slog.String("error", err.Error()))
		}
	}
	return settled
}
