package participation

import (
	"context"

	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

// Entry is a participation joined with the event fields shown in a user's list.
type Entry struct {
	Participation
	EventSlug   string
	EventTitle  string
	EventStatus string
}

// Repository is the participation registry.
type Repository interface {
	// Activate inserts an active row or re-activates a cancelled one (transaction required).
	// ErrAlreadyJoined when the pair is already active.
	Activate(ctx context.Context, tx transaction.Tx, p *Participation) error

	// Cancel flips the active row to cancelled (transaction required).
	// It reports false when there was no active row.
	Cancel(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error)

	IsActive(ctx context.Context, eventID, userID string) (bool, error)

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Entry, error)

	CountActive(ctx context.Context, eventID string) (int, error)
}
