package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
)

func TestFavoriteHandler(t *testing.T) {
	e := NewTestEcho()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	fav := &favorite.Favorite{ID: "f-1", EventID: "ev-1", UserID: "alice", EventSlug: "beach-volley-open", CreatedAt: now}

	t.Run("add", func(t *testing.T) {
		svc := new(MockFavoriteService)
		svc.On("AddFavorite", mock.Anything, "alice", "ev-1").Return(fav, nil)
		h := NewFavoriteHandler(svc)

		c, rec := newContext(e, http.MethodPost, "/api/v1/favorites", `{"event_id":"ev-1"}`, &alice)

		require.NoError(t, h.Add(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"event_slug":"beach-volley-open"`)
	})

	t.Run("add duplicate", func(t *testing.T) {
		svc := new(MockFavoriteService)
		svc.On("AddFavorite", mock.Anything, "alice", "ev-1").Return(nil, favorite.ErrAlreadyFavorited)
		h := NewFavoriteHandler(svc)

		c, _ := newContext(e, http.MethodPost, "/api/v1/favorites", `{"event_id":"ev-1"}`, &alice)

		assert.ErrorIs(t, h.Add(c), favorite.ErrAlreadyFavorited)
	})

	t.Run("list", func(t *testing.T) {
		svc := new(MockFavoriteService)
		svc.On("ListFavorites", mock.Anything, "alice", 0, 0).Return([]*favorite.Favorite{fav}, nil)
		h := NewFavoriteHandler(svc)

		c, rec := newContext(e, http.MethodGet, "/api/v1/favorites", "", &alice)

		require.NoError(t, h.List(c))
		assert.Contains(t, rec.Body.String(), `"id":"f-1"`)
	})

	t.Run("remove", func(t *testing.T) {
		svc := new(MockFavoriteService)
		svc.On("RemoveFavorite", mock.Anything, "alice", "ev-1").Return(nil)
		h := NewFavoriteHandler(svc)

		c, rec := newContext(e, http.MethodDelete, "/api/v1/favorites/ev-1", "", &alice)
		c.SetParamNames("event_id")
		c.SetParamValues("ev-1")

		require.NoError(t, h.Remove(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
