package event

import (
	"context"
	"time"
)

// Repository is the persistence contract for events.
type Repository interface {
	// Create inserts a new event. A slug collision returns ErrSlugTaken.
	Create(ctx context.Context, event *Event) error

	GetByID(ctx context.Context, id string) (*Event, error)

	GetBySlug(ctx context.Context, slug string) (*Event, error)

	// SlugExists reports whether slug is used by an event other than excludeID.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	ListPublished(ctx context.Context, limit, offset int) ([]*Event, error)

	ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*Event, error)

	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Event, error)

	// Update saves descriptive fields and status (optimistic lock).
	// capacity_reserved is owned by the capacity ledger and never written here.
	Update(ctx context.Context, event *Event) error

	Delete(ctx context.Context, id string) error

	// ModeratePending moves one pending event to target in a single conditional update.
	ModeratePending(ctx context.Context, id string, target Status, publishedAt *time.Time) (*Event, error)

	// BulkModeratePending moves every pending event matching criteria to target
	// and returns the affected count.
	BulkModeratePending(ctx context.Context, criteria ModerationCriteria, target Status, publishedAt *time.Time) (int, error)

	// CompleteEnded marks up to limit published events that ended before now as
	// completed and returns them.
	CompleteEnded(ctx context.Context, now time.Time, limit int) ([]*Event, error)
}
