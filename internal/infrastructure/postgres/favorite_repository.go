package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
)

type favoriteRow struct {
	ID         string    `db:"id"`
	EventID    string    `db:"event_id"`
	UserID     string    `db:"user_id"`
	EventSlug  string    `db:"event_slug"`
	EventTitle string    `db:"event_title"`
	CreatedAt  time.Time `db:"created_at"`
}

type FavoriteRepository struct{ db *sqlx.DB }

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository { return &FavoriteRepository{db: db} }

func (r *FavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	query := `INSERT INTO favorites (event_id, user_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, f.EventID, f.UserID, f.CreatedAt).Scan(&f.ID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return favorite.ErrAlreadyFavorited
	case isForeignKeyViolation(err), isInvalidID(err):
		return favorite.ErrEventNotPublished
	}
	return fmt.Errorf("add favorite: %w", err)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, eventID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		if isInvalidID(err) {
			return favorite.ErrFavoriteNotFound
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if affected == 0 {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*favorite.Favorite, error) {
	query := `
		SELECT f.id, f.event_id, f.user_id, e.slug AS event_slug, e.title AS event_title, f.created_at
		FROM favorites f
		JOIN events e ON e.id = f.event_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id
		LIMIT $2 OFFSET $3
	`
	var rows []favoriteRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	favorites := make([]*favorite.Favorite, len(rows))
	for i, row := range rows {
		favorites[i] = &favorite.Favorite{
			ID:         row.ID,
			EventID:    row.EventID,
			UserID:     row.UserID,
			EventSlug:  row.EventSlug,
			EventTitle: row.EventTitle,
			CreatedAt:  row.CreatedAt,
		}
	}
	return favorites, nil
}

var _ favorite.Repository = (*FavoriteRepository)(nil)
