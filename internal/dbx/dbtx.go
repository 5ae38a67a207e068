// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and helpers to run functions inside a transaction, optionally retrying
// transactions the driver reports as transient failures.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return metadata.NewSQLiteRepository(tx).Set(ctx, "token", tok)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	err = fn(ctx, tx)
	return err
}

// RetryPolicy bounds WithTxRetry. Retryable decides which errors are worth
// another attempt; nil means none are.
type RetryPolicy struct {
	Attempts  int
	Backoff   time.Duration
	Retryable func(error) bool
}

// WithTxRetry runs WithTx until it succeeds, fails with an error the policy
// does not retry, or runs out of attempts. fn must be safe to run again: a
// failed attempt has been rolled back. The wait doubles after every attempt
// and is cut short by ctx.
func WithTxRetry(ctx context.Context, db *sql.DB, opts *sql.TxOptions, p RetryPolicy, fn func(ctx context.Context, tx DBTX) error) error {
	wait := p.Backoff
	for attempt := 1; ; attempt++ {
		err := WithTx(ctx, db, opts, fn)
		if err == nil || attempt >= p.Attempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry tx after %d attempts: %w", attempt, err)
		case <-t.C:
		}
		wait *= 2
	}
}
