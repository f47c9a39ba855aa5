package favorite

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyFavorited  = errors.New("event already in favorites")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrEventNotPublished = errors.New("only published events can be favorited")
)

// Favorite is a bookmark of an event by a user.
type Favorite struct {
	ID         string
	EventID    string
	UserID     string
	EventSlug  string
	EventTitle string
	CreatedAt  time.Time
}

type Repository interface {
	// Add inserts the favorite. ErrAlreadyFavorited on a duplicate pair.
	Add(ctx context.Context, f *Favorite) error
	// Remove deletes the favorite. ErrFavoriteNotFound when absent.
	Remove(ctx context.Context, userID, eventID string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Favorite, error)
}
