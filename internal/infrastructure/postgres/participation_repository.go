package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/youssefbibani/platform-sport/internal/domain/participation"
	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

type participationRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	UserID      string    `db:"user_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	EventSlug   string    `db:"event_slug"`
	EventTitle  string    `db:"event_title"`
	EventStatus string    `db:"event_status"`
}

func (r *participationRow) toEntry() *participation.Entry {
	return &participation.Entry{
		Participation: participation.Participation{
			ID:        r.ID,
			EventID:   r.EventID,
			UserID:    r.UserID,
			Status:    participation.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		EventSlug:   r.EventSlug,
		EventTitle:  r.EventTitle,
		EventStatus: r.EventStatus,
	}
}

// ParticipationRepository is the PostgreSQL participation registry.
type ParticipationRepository struct {
	db *sqlx.DB
}

func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Activate inserts the pair or re-activates a cancelled row. An active row makes
// the conflict branch a no-op, which surfaces as ErrAlreadyJoined.
func (r *ParticipationRepository) Activate(ctx context.Context, tx transaction.Tx, p *participation.Participation) error {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return errTxRequired
	}

	query := `
		INSERT INTO participations (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, 'active', $3, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET status = 'active', updated_at = EXCLUDED.updated_at
		WHERE participations.status = 'cancelled'
		RETURNING id, created_at
	`
	err := sqlTx.QueryRowxContext(ctx, query, p.EventID, p.UserID, p.UpdatedAt).Scan(&p.ID, &p.CreatedAt)
	switch {
	case err == nil:
		p.Status = participation.StatusActive
		return nil
	case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err):
		return participation.ErrAlreadyJoined
	case isForeignKeyViolation(err), isInvalidID(err):
		return participation.ErrEventNotJoinable
	}
	return fmt.Errorf("activate participation: %w", err)
}

func (r *ParticipationRepository) Cancel(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return false, errTxRequired
	}

	query := `
		UPDATE participations
		SET status = 'cancelled', updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2 AND status = 'active'
	`
	result, err := sqlTx.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("cancel participation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel participation: %w", err)
	}
	return affected > 0, nil
}

func (r *ParticipationRepository) IsActive(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participations WHERE event_id = $1 AND user_id = $2 AND status = 'active')`
	var active bool
	if err := r.db.GetContext(ctx, &active, query, eventID, userID); err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("check participation: %w", err)
	}
	return active, nil
}

func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error) {
	query := `
		SELECT p.id, p.event_id, p.user_id, p.status, p.created_at, p.updated_at,
		       e.slug AS event_slug, e.title AS event_title, e.status AS event_status
		FROM participations p
		JOIN events e ON e.id = p.event_id
		WHERE p.user_id = $1 AND p.status = 'active'
		ORDER BY p.created_at DESC, p.id
		LIMIT $2 OFFSET $3
	`
	var rows []participationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	entries := make([]*participation.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toEntry()
	}
	return entries, nil
}

func (r *ParticipationRepository) CountActive(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status = 'active'`, eventID)
	if err != nil {
		if isInvalidID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count participations: %w", err)
	}
	return count, nil
}

var _ participation.Repository = (*ParticipationRepository)(nil)
