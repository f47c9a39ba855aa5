package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/youssefbibani/platform-sport/internal/domain/event"
)

const eventColumns = `id, organizer_id, title, slug, short_description, description, sport_id, category_id,
	event_type, level_required, start_at, end_at, timezone, location_id, capacity_total, capacity_reserved,
	is_free, currency, cancellation_policy, cancellation_public, cover_image_url, status, published_at,
	created_at, updated_at, version, revision`

type eventRow struct {
	ID                 string     `db:"id"`
	OrganizerID        string     `db:"organizer_id"`
	Title              string     `db:"title"`
	Slug               string     `db:"slug"`
	ShortDescription   *string    `db:"short_description"`
	Description        *string    `db:"description"`
	SportID            *string    `db:"sport_id"`
	CategoryID         *string    `db:"category_id"`
	EventType          string     `db:"event_type"`
	Level              string     `db:"level_required"`
	StartAt            time.Time  `db:"start_at"`
	EndAt              time.Time  `db:"end_at"`
	Timezone           string     `db:"timezone"`
	LocationID         *string    `db:"location_id"`
	CapacityTotal      int        `db:"capacity_total"`
	CapacityReserved   int        `db:"capacity_reserved"`
	IsFree             bool       `db:"is_free"`
	Currency           string     `db:"currency"`
	CancellationPolicy *string    `db:"cancellation_policy"`
	CancellationPublic bool       `db:"cancellation_public"`
	CoverImageURL      *string    `db:"cover_image_url"`
	Status             string     `db:"status"`
	PublishedAt        *time.Time `db:"published_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	Version            int        `db:"version"`
	Revision           int64      `db:"revision"`
}

func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:                 r.ID,
		OrganizerID:        r.OrganizerID,
		Title:              r.Title,
		Slug:               r.Slug,
		ShortDescription:   deref(r.ShortDescription),
		Description:        deref(r.Description),
		SportID:            deref(r.SportID),
		CategoryID:         deref(r.CategoryID),
		EventType:          event.Type(r.EventType),
		Level:              event.Level(r.Level),
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
		Timezone:           r.Timezone,
		LocationID:         deref(r.LocationID),
		CapacityTotal:      r.CapacityTotal,
		CapacityReserved:   r.CapacityReserved,
		IsFree:             r.IsFree,
		Currency:           r.Currency,
		CancellationPolicy: deref(r.CancellationPolicy),
		CancellationPublic: r.CancellationPublic,
		CoverImageURL:      deref(r.CoverImageURL),
		Status:             event.Status(r.Status),
		PublishedAt:        r.PublishedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
		Revision:           r.Revision,
	}
}

func toEntities(rows []eventRow) []*event.Event {
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events
}

// EventRepository is the PostgreSQL implementation of event.Repository.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (organizer_id, title, slug, short_description, description, sport_id, category_id,
			event_type, level_required, start_at, end_at, timezone, location_id, capacity_total, capacity_reserved,
			is_free, currency, cancellation_policy, cancellation_public, cover_image_url, status, published_at,
			created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.OrganizerID, e.Title, e.Slug, nullString(e.ShortDescription), nullString(e.Description),
		nullString(e.SportID), nullString(e.CategoryID), string(e.EventType), string(e.Level),
		e.StartAt, e.EndAt, e.Timezone, nullString(e.LocationID), e.CapacityTotal, e.CapacityReserved,
		e.IsFree, e.Currency, nullString(e.CancellationPolicy), e.CancellationPublic, nullString(e.CoverImageURL),
		string(e.Status), e.PublishedAt, e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return event.ErrSlugTaken
		}
		if isCheckViolation(err) {
			return fmt.Errorf("create event: %w", event.ErrInvalidEvent)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*event.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *EventRepository) getOne(ctx context.Context, query string, arg string) (*event.Event, error) {
	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return row.toEntity(), nil
}

func (r *EventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *EventRepository) ListPublished(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'published' ORDER BY start_at ASC, id LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, organizerID, limit, offset)
}

// ListByStatus returns the oldest events first so that review queues are fair.
func (r *EventRepository) ListByStatus(ctx context.Context, status event.Status, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY created_at ASC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, string(status), limit, offset)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*event.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return toEntities(rows), nil
}

// Update saves the editable fields (optimistic lock). capacity_reserved is left to the ledger.
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, slug = $2, short_description = $3, description = $4, sport_id = $5, category_id = $6,
		    event_type = $7, level_required = $8, start_at = $9, end_at = $10, timezone = $11, location_id = $12,
		    capacity_total = $13, is_free = $14, currency = $15, cancellation_policy = $16,
		    cancellation_public = $17, cover_image_url = $18, status = $19, published_at = $20,
		    updated_at = NOW(), version = version + 1, revision = revision + 1
		WHERE id = $21 AND version = $22
		RETURNING capacity_reserved, updated_at, version, revision
	`
	err := r.db.QueryRowxContext(ctx, query,
		e.Title, e.Slug, nullString(e.ShortDescription), nullString(e.Description), nullString(e.SportID),
		nullString(e.CategoryID), string(e.EventType), string(e.Level), e.StartAt, e.EndAt, e.Timezone,
		nullString(e.LocationID), e.CapacityTotal, e.IsFree, e.Currency, nullString(e.CancellationPolicy),
		e.CancellationPublic, nullString(e.CoverImageURL), string(e.Status), e.PublishedAt,
		e.ID, e.Version,
	).Scan(&e.CapacityReserved, &e.UpdatedAt, &e.Version, &e.Revision)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		if _, getErr := r.GetByID(ctx, e.ID); getErr != nil {
			return getErr
		}
		return event.ErrOptimisticLockConflict
	case isUniqueViolation(err):
		return event.ErrSlugTaken
	case isCheckViolation(err):
		// a join raced the capacity reduction
		return &event.ValidationError{
			Field:   "capacity_total",
			Message: event.ErrCapacityBelowReservation.Error(),
			Err:     event.ErrCapacityBelowReservation,
		}
	case isInvalidID(err):
		return event.ErrEventNotFound
	}
	return fmt.Errorf("update event: %w", err)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// ModeratePending moves a pending event to target. The status guard makes the
// check and the write one statement.
func (r *EventRepository) ModeratePending(ctx context.Context, id string, target event.Status, publishedAt *time.Time) (*event.Event, error) {
	query := `
		UPDATE events
		SET status = $2, published_at = $3, updated_at = NOW(), version = version + 1, revision = revision + 1
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + eventColumns

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id, string(target), publishedAt)
	if err == nil {
		return row.toEntity(), nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, event.ErrInvalidModerationTarget
	}
	if isInvalidID(err) {
		return nil, event.ErrEventNotFound
	}
	return nil, fmt.Errorf("moderate event: %w", err)
}

func (r *EventRepository) BulkModeratePending(ctx context.Context, criteria event.ModerationCriteria, target event.Status, publishedAt *time.Time) (int, error) {
	query, args := buildBulkModeration(criteria, target, publishedAt)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			// a malformed id matches nothing
			return 0, nil
		}
		return 0, fmt.Errorf("bulk moderate events: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk moderate events: %w", err)
	}
	return int(affected), nil
}

func buildBulkModeration(criteria event.ModerationCriteria, target event.Status, publishedAt *time.Time) (string, []any) {
	args := []any{string(target), publishedAt}
	conds := []string{"status = 'pending'"}

	if len(criteria.EventIDs) > 0 {
		args = append(args, pq.Array(criteria.EventIDs))
		conds = append(conds, "id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if criteria.OrganizerID != "" {
		args = append(args, criteria.OrganizerID)
		conds = append(conds, "organizer_id = $"+strconv.Itoa(len(args)))
	}
	if criteria.SportID != "" {
		args = append(args, criteria.SportID)
		conds = append(conds, "sport_id = $"+strconv.Itoa(len(args)))
	}

	query := `UPDATE events SET status = $1, published_at = $2, updated_at = NOW(), version = version + 1, revision = revision + 1 WHERE ` +
		strings.Join(conds, " AND ")
	return query, args
}

// CompleteEnded completes one batch. Rows locked by a concurrent writer are
// skipped and picked up by a later batch.
func (r *EventRepository) CompleteEnded(ctx context.Context, now time.Time, limit int) ([]*event.Event, error) {
	query := `
		UPDATE events
		SET status = 'completed', published_at = NULL, updated_at = NOW(), version = version + 1, revision = revision + 1
		WHERE id IN (
			SELECT id FROM events
			WHERE status = 'published' AND end_at < $1
			ORDER BY end_at, id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + eventColumns

	events, err := r.list(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("complete ended events: %w", err)
	}
	return events, nil
}

var _ event.Repository = (*EventRepository)(nil)
