package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
)

type FavoriteHandler struct {
	service FavoriteServiceInterface
}

func NewFavoriteHandler(s FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: s}
}

type AddFavoriteRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

type FavoriteResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventSlug  string    `json:"event_slug"`
	EventTitle string    `json:"event_title"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFavoriteResponse(f *favorite.Favorite) FavoriteResponse {
	return FavoriteResponse{
		ID:         f.ID,
		EventID:    f.EventID,
		EventSlug:  f.EventSlug,
		EventTitle: f.EventTitle,
		CreatedAt:  f.CreatedAt,
	}
}

func (h *FavoriteHandler) List(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	favorites, err := h.service.ListFavorites(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]FavoriteResponse, len(favorites))
	for i, f := range favorites {
		resp[i] = toFavoriteResponse(f)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req AddFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	f, err := h.service.AddFavorite(c.Request().Context(), actor.UserID, req.EventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toFavoriteResponse(f))
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveFavorite(c.Request().Context(), actor.UserID, c.Param("event_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
