package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
)

type ModerationHandler struct {
	service ModerationServiceInterface
}

func NewModerationHandler(s ModerationServiceInterface) *ModerationHandler {
	return &ModerationHandler{service: s}
}

// ModerateRequest accepts published or rejected only. Other values are
// reported by the service as an invalid moderation target.
type ModerateRequest struct {
	Status string `json:"status" validate:"required"`
}

type SetStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Version *int   `json:"version"`
}

type BulkModerateRequest struct {
	Action      string   `json:"action" validate:"required"`
	EventIDs    []string `json:"event_ids"`
	OrganizerID string   `json:"organizer_id"`
	SportID     string   `json:"sport_id"`
}

type BulkModerateResponse struct {
	AffectedCount int `json:"affected_count"`
}

// List godoc
// @Summary List events by status for review
// @Tags admin
// @Produce json
// @Param status query string false "status" default(pending)
// @Success 200 {array} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /admin/events [get]
func (h *ModerationHandler) List(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	events, err := h.service.ListByStatus(c.Request().Context(), actor, event.Status(c.QueryParam("status")), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Moderate godoc
// @Summary Publish or reject a pending event
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param request body ModerateRequest true "decision"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse "not pending or invalid decision"
// @Router /admin/events/{id}/moderate [post]
func (h *ModerationHandler) Moderate(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req ModerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.service.Moderate(c.Request().Context(), application.ModerateInput{
		EventID:  c.Param("id"),
		Decision: event.Status(req.Status),
		Actor:    actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// BulkModerate godoc
// @Summary Approve or reject every pending event matching the filter
// @Tags admin
// @Accept json
// @Produce json
// @Param request body BulkModerateRequest true "batch"
// @Success 200 {object} BulkModerateResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Router /admin/events/moderate [post]
func (h *ModerationHandler) BulkModerate(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req BulkModerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	affected, err := h.service.BulkModerate(c.Request().Context(), application.BulkModerateInput{
		Decision: event.BulkDecision(req.Action),
		Criteria: event.ModerationCriteria{
			EventIDs:    req.EventIDs,
			OrganizerID: req.OrganizerID,
			SportID:     req.SportID,
		},
		Actor: actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BulkModerateResponse{AffectedCount: affected})
}

// SetStatus godoc
// @Summary Apply any lifecycle status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param request body SetStatusRequest true "status"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /admin/events/{id}/status [put]
func (h *ModerationHandler) SetStatus(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req SetStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.service.SetStatus(c.Request().Context(), application.SetStatusInput{
		EventID: c.Param("id"),
		Status:  event.Status(req.Status),
		Actor:   actor,
		Version: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}
