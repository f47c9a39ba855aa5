package application

import (
	"context"
	"errors"

	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
)

type FavoriteService struct {
	favoriteRepo favorite.Repository
	eventRepo    event.Repository
	clock        clock.Clock
}

func NewFavoriteService(favoriteRepo favorite.Repository, eventRepo event.Repository, clk clock.Clock) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, eventRepo: eventRepo, clock: clk}
}

// AddFavorite bookmarks a published event.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, eventID string) (*favorite.Favorite, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return nil, favorite.ErrEventNotPublished
		}
		return nil, err
	}
	if ev.Status != event.StatusPublished {
		return nil, favorite.ErrEventNotPublished
	}

	f := &favorite.Favorite{
		EventID:    ev.ID,
		UserID:     userID,
		EventSlug:  ev.Slug,
		EventTitle: ev.Title,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.favoriteRepo.Add(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	return s.favoriteRepo.Remove(ctx, userID, eventID)
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*favorite.Favorite, error) {
	limit, offset = normalizePage(limit, offset)
	return s.favoriteRepo.ListByUser(ctx, userID, limit, offset)
}
