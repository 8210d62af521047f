package services

import (
	"context"

	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// runInScope executes fn inside one database transaction. Any error from fn, or a failed
// commit, leaves the transaction rolled back.
func runInScope(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	// Rollback is a no-op once the transaction is committed.
	defer tm.Rollback(context.WithoutCancel(ctx), tx)

	if err := fn(tx); err != nil {
		return err
	}
	return tm.Commit(ctx, tx)
}
