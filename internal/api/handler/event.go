package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest is the organizer payload for create and update.
type EventRequest struct {
	Title              string    `json:"title" validate:"required,max=160" example:"Beach volley open"`
	ShortDescription   string    `json:"short_description" validate:"max=220"`
	Description        string    `json:"description"`
	SportID            string    `json:"sport_id"`
	CategoryID         string    `json:"category_id"`
	EventType          string    `json:"event_type" validate:"required,oneof=course stage tournament match" example:"tournament"`
	Level              string    `json:"level_required" validate:"omitempty,oneof=all beginner intermediate advanced"`
	StartAt            time.Time `json:"start_at" validate:"required" example:"2026-07-04T09:00:00Z"`
	EndAt              time.Time `json:"end_at" validate:"required" example:"2026-07-04T18:00:00Z"`
	Timezone           string    `json:"timezone" validate:"max=60"`
	LocationID         string    `json:"location_id"`
	CapacityTotal      int       `json:"capacity_total" validate:"gte=0" example:"24"`
	IsFree             bool      `json:"is_free"`
	Currency           string    `json:"currency" validate:"omitempty,len=3"`
	CancellationPolicy string    `json:"cancellation_policy"`
	CancellationPublic bool      `json:"cancellation_public"`
	CoverImageURL      string    `json:"cover_image_url" validate:"omitempty,url"`
	Status             string    `json:"status" validate:"omitempty,oneof=draft pending published rejected cancelled completed"`
	Version            *int      `json:"version"`
}

func (r *EventRequest) details() application.EventDetails {
	return application.EventDetails{
		Title:              r.Title,
		ShortDescription:   r.ShortDescription,
		Description:        r.Description,
		SportID:            r.SportID,
		CategoryID:         r.CategoryID,
		EventType:          event.Type(r.EventType),
		Level:              event.Level(r.Level),
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
		Timezone:           r.Timezone,
		LocationID:         r.LocationID,
		CapacityTotal:      r.CapacityTotal,
		IsFree:             r.IsFree,
		Currency:           r.Currency,
		CancellationPolicy: r.CancellationPolicy,
		CancellationPublic: r.CancellationPublic,
		CoverImageURL:      r.CoverImageURL,
	}
}

type EventResponse struct {
	ID                 string     `json:"id"`
	OrganizerID        string     `json:"organizer_id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	ShortDescription   string     `json:"short_description"`
	Description        string     `json:"description"`
	SportID            string     `json:"sport_id,omitempty"`
	CategoryID         string     `json:"category_id,omitempty"`
	EventType          string     `json:"event_type"`
	Level              string     `json:"level_required"`
	StartAt            time.Time  `json:"start_at"`
	EndAt              time.Time  `json:"end_at"`
	Timezone           string     `json:"timezone"`
	LocationID         string     `json:"location_id,omitempty"`
	CapacityTotal      int        `json:"capacity_total"`
	CapacityReserved   int        `json:"capacity_reserved"`
	CapacityAvailable  int        `json:"capacity_available"`
	IsFree             bool       `json:"is_free"`
	Currency           string     `json:"currency"`
	CancellationPolicy string     `json:"cancellation_policy,omitempty"`
	CancellationPublic bool       `json:"cancellation_public"`
	CoverImageURL      string     `json:"cover_image_url,omitempty"`
	Status             string     `json:"status"`
	PublishedAt        *time.Time `json:"published_at"`
	Version            int        `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:                 e.ID,
		OrganizerID:        e.OrganizerID,
		Title:              e.Title,
		Slug:               e.Slug,
		ShortDescription:   e.ShortDescription,
		Description:        e.Description,
		SportID:            e.SportID,
		CategoryID:         e.CategoryID,
		EventType:          string(e.EventType),
		Level:              string(e.Level),
		StartAt:            e.StartAt,
		EndAt:              e.EndAt,
		Timezone:           e.Timezone,
		LocationID:         e.LocationID,
		CapacityTotal:      e.CapacityTotal,
		CapacityReserved:   e.CapacityReserved,
		CapacityAvailable:  e.CapacityAvailable(),
		IsFree:             e.IsFree,
		Currency:           e.Currency,
		CancellationPolicy: e.CancellationPolicy,
		CancellationPublic: e.CancellationPublic,
		CoverImageURL:      e.CoverImageURL,
		Status:             string(e.Status),
		PublishedAt:        e.PublishedAt,
		Version:            e.Version,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	resp := make([]*EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return resp
}

// List godoc
// @Summary List published events
// @Tags events
// @Produce json
// @Param limit query int false "page size" default(20)
// @Param offset query int false "offset" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, offset := page(c)
	events, err := h.eventService.ListPublishedEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// GetBySlug godoc
// @Summary Get a published event
// @Tags events
// @Produce json
// @Param slug path string true "event slug"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{slug} [get]
func (h *EventHandler) GetBySlug(c echo.Context) error {
	e, err := h.eventService.GetPublishedEvent(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// ListMine godoc
// @Summary List the organizer's events
// @Tags organizer
// @Produce json
// @Success 200 {array} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /organizer/events [get]
func (h *EventHandler) ListMine(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	events, err := h.eventService.ListOrganizerEvents(c.Request().Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Create godoc
// @Summary Create an event
// @Description Organizers create drafts. Requesting published moves the event to pending review.
// @Tags organizer
// @Accept json
// @Produce json
// @Param request body EventRequest true "event"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /organizer/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Actor:   actor,
		Details: req.details(),
		Status:  event.Status(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// Get godoc
// @Summary Get one of the organizer's events
// @Tags organizer
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	e, err := h.eventService.GetManagedEvent(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Update godoc
// @Summary Update an event
// @Tags organizer
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param request body EventRequest true "event"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /organizer/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := application.UpdateEventInput{
		ID:      c.Param("id"),
		Actor:   actor,
		Details: req.details(),
		Version: req.Version,
	}
	if req.Status != "" {
		status := event.Status(req.Status)
		input.Status = &status
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary Delete an event
// @Tags organizer
// @Param id path string true "event id"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
