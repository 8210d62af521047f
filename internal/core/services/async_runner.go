package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"golang.org/x/sync/semaphore"
)

const defaultSideEffectTimeout = 10 * time.Second

// AsyncRunner runs post-commit side effects off the request path with bounded concurrency.
// Callers never block on it: a job waits for a free slot inside its own goroutine.
type AsyncRunner struct {
	slots   *semaphore.Weighted
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewAsyncRunner creates a runner that executes at most workers jobs at a time.
func NewAsyncRunner(workers int) *AsyncRunner {
	if workers <= 0 {
		workers = 1
	}
	return &AsyncRunner{
		slots:   semaphore.NewWeighted(int64(workers)),
		timeout: defaultSideEffectTimeout,
	}
}

// Go schedules fn. The job keeps ctx values (request logger, ids) but not its cancellation,
// so it still runs after the HTTP response has been written. Errors are logged and dropped.
func (r *AsyncRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	jobCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// jobCtx is never cancelled, so Acquire only returns once a slot frees up.
		if err := r.slots.Acquire(jobCtx, 1); err != nil {
			return
		}
		defer r.slots.Release(1)

		runCtx, cancel := context.WithTimeout(jobCtx, r.timeout)
		defer cancel()

		logger := middleware.GetLoggerFromCtx(runCtx)
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Side effect panicked", slog.String("job", name), slog.Any("panic", p))
			}
		}()

		if err := fn(runCtx); err != nil {
			logger.Warn("Side effect failed", slog.String("job", name), slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until every scheduled job has finished.
func (r *AsyncRunner) Wait() {
	r.wg.Wait()
}

// Shutdown waits for in-flight jobs or gives up when ctx is done.
func (r *AsyncRunner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
