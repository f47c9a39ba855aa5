package capacity

import (
	"context"
	"errors"

	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

var (
	ErrCapacityExhausted = errors.New("event is full")
	ErrNothingToRelease  = errors.New("no reserved seat to release")
)

// Snapshot is the capacity counters of one event at a point in time.
// Revision orders snapshots of the same event.
type Snapshot struct {
	EventID  string
	Total    int
	Reserved int
	Revision int64
}

// Available returns the seats left, never negative.
func (s Snapshot) Available() int {
	return max(s.Total-s.Reserved, 0)
}

// Ledger owns capacity_reserved. Reserve and Release are atomic check-and-mutate
// operations and must run inside the same transaction as the participation change.
type Ledger interface {
	// Reserve takes one seat. ErrCapacityExhausted when no seat is left.
	Reserve(ctx context.Context, tx transaction.Tx, eventID string) (Snapshot, error)

	// Release gives one seat back. ErrNothingToRelease when nothing is reserved.
	Release(ctx context.Context, tx transaction.Tx, eventID string) (Snapshot, error)

	Get(ctx context.Context, eventID string) (Snapshot, error)
}
