package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
)

type ParticipationHandler struct {
	service ParticipationServiceInterface
}

func NewParticipationHandler(s ParticipationServiceInterface) *ParticipationHandler {
	return &ParticipationHandler{service: s}
}

// JoinStatusResponse is the body of every join endpoint.
type JoinStatusResponse struct {
	Joined            bool `json:"joined"`
	CapacityAvailable int  `json:"capacity_available"`
}

// CapacityAuditResponse compares reserved seats with active participations.
type CapacityAuditResponse struct {
	EventID              string `json:"event_id"`
	CapacityTotal        int    `json:"capacity_total"`
	CapacityReserved     int    `json:"capacity_reserved"`
	CapacityAvailable    int    `json:"capacity_available"`
	ActiveParticipations int    `json:"active_participations"`
	Consistent           bool   `json:"consistent"`
}

type ParticipationResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	EventSlug   string    `json:"event_slug"`
	EventTitle  string    `json:"event_title"`
	EventStatus string    `json:"event_status"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toParticipationResponse(e *participation.Entry) ParticipationResponse {
	return ParticipationResponse{
		ID:          e.ID,
		EventID:     e.EventID,
		EventSlug:   e.EventSlug,
		EventTitle:  e.EventTitle,
		EventStatus: e.EventStatus,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

// Join godoc
// @Summary Join a published event
// @Tags participation
// @Produce json
// @Param slug path string true "event slug"
// @Success 201 {object} JoinStatusResponse
// @Failure 402 {object} api.ErrorResponse "paid event"
// @Failure 403 {object} api.ErrorResponse "role not eligible"
// @Failure 404 {object} api.ErrorResponse "event not joinable"
// @Failure 409 {object} api.ErrorResponse "full or already joined"
// @Router /events/{slug}/join [post]
func (h *ParticipationHandler) Join(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	result, err := h.service.Join(c.Request().Context(), application.JoinInput{
		EventSlug: c.Param("slug"),
		Actor:     actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, JoinStatusResponse{
		Joined:            result.Joined,
		CapacityAvailable: result.CapacityAvailable,
	})
}

// Leave godoc
// @Summary Leave an event
// @Description Leaving an event that was not joined succeeds.
// @Tags participation
// @Produce json
// @Param slug path string true "event slug"
// @Success 200 {object} JoinStatusResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{slug}/join [delete]
func (h *ParticipationHandler) Leave(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	result, err := h.service.Leave(c.Request().Context(), application.LeaveInput{
		EventSlug: c.Param("slug"),
		Actor:     actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JoinStatusResponse{
		Joined:            result.Joined,
		CapacityAvailable: result.CapacityAvailable,
	})
}

// Status godoc
// @Summary Join status of the caller
// @Tags participation
// @Produce json
// @Param slug path string true "event slug"
// @Success 200 {object} JoinStatusResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{slug}/join [get]
func (h *ParticipationHandler) Status(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	status, err := h.service.GetJoinStatus(c.Request().Context(), c.Param("slug"), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JoinStatusResponse{
		Joined:            status.Joined,
		CapacityAvailable: status.CapacityAvailable,
	})
}

// ListMine godoc
// @Summary Events the caller has joined
// @Tags participation
// @Produce json
// @Success 200 {array} ParticipationResponse
// @Router /me/participations [get]
func (h *ParticipationHandler) ListMine(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	entries, err := h.service.ListMyParticipations(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]ParticipationResponse, len(entries))
	for i, e := range entries {
		resp[i] = toParticipationResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Audit godoc
// @Summary Compare an event's capacity ledger with its participations
// @Tags admin
// @Produce json
// @Param id path string true "event ID"
// @Success 200 {object} CapacityAuditResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /admin/events/{id}/capacity [get]
func (h *ParticipationHandler) Audit(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	audit, err := h.service.AuditCapacity(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CapacityAuditResponse{
		EventID:              audit.Snapshot.EventID,
		CapacityTotal:        audit.Snapshot.Total,
		CapacityReserved:     audit.Snapshot.Reserved,
		CapacityAvailable:    audit.Snapshot.Available(),
		ActiveParticipations: audit.ActiveParticipations,
		Consistent:           audit.Consistent(),
	})
}
