package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

type snapshotRow struct {
	ID       string `db:"id"`
	Total    int    `db:"capacity_total"`
	Reserved int    `db:"capacity_reserved"`
	Revision int64  `db:"revision"`
}

func (r snapshotRow) toSnapshot() capacity.Snapshot {
	return capacity.Snapshot{EventID: r.ID, Total: r.Total, Reserved: r.Reserved, Revision: r.Revision}
}

// CapacityLedger keeps capacity_reserved on the events row. Each mutation is a
// single guarded UPDATE so the row lock serialises concurrent joins.
type CapacityLedger struct {
	db *sqlx.DB
}

func NewCapacityLedger(db *sqlx.DB) *CapacityLedger {
	return &CapacityLedger{db: db}
}

func (l *CapacityLedger) Reserve(ctx context.Context, tx transaction.Tx, eventID string) (capacity.Snapshot, error) {
	query := `
		UPDATE events
		SET capacity_reserved = capacity_reserved + 1, updated_at = NOW(), revision = revision + 1
		WHERE id = $1 AND capacity_reserved < capacity_total
		RETURNING id, capacity_total, capacity_reserved, revision
	`
	return l.mutate(ctx, tx, query, eventID, capacity.ErrCapacityExhausted)
}

func (l *CapacityLedger) Release(ctx context.Context, tx transaction.Tx, eventID string) (capacity.Snapshot, error) {
	query := `
		UPDATE events
		SET capacity_reserved = capacity_reserved - 1, updated_at = NOW(), revision = revision + 1
		WHERE id = $1 AND capacity_reserved > 0
		RETURNING id, capacity_total, capacity_reserved, revision
	`
	return l.mutate(ctx, tx, query, eventID, capacity.ErrNothingToRelease)
}

func (l *CapacityLedger) mutate(ctx context.Context, tx transaction.Tx, query, eventID string, guardErr error) (capacity.Snapshot, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return capacity.Snapshot{}, errTxRequired
	}

	var row snapshotRow
	if err := sqlTx.GetContext(ctx, &row, query, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return capacity.Snapshot{}, guardErr
		}
		if isCheckViolation(err) {
			return capacity.Snapshot{}, guardErr
		}
		return capacity.Snapshot{}, fmt.Errorf("update capacity: %w", err)
	}
	return row.toSnapshot(), nil
}

func (l *CapacityLedger) Get(ctx context.Context, eventID string) (capacity.Snapshot, error) {
	var row snapshotRow
	err := l.db.GetContext(ctx, &row, `SELECT id, capacity_total, capacity_reserved, revision FROM events WHERE id = $1`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return capacity.Snapshot{}, event.ErrEventNotFound
		}
		return capacity.Snapshot{}, fmt.Errorf("get capacity: %w", err)
	}
	return row.toSnapshot(), nil
}

var _ capacity.Ledger = (*CapacityLedger)(nil)
