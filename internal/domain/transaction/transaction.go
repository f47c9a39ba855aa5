package transaction

import (
	"context"
	"fmt"
)

// Tx is a unit of work opened by a Manager.
// It keeps the domain and application layers independent from sqlx.
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager opens transactions.
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Run executes fn inside a new transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; fn's error is returned unchanged so that
// callers can still match domain sentinels with errors.Is.
func Run(ctx context.Context, m Manager, fn func(tx Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
