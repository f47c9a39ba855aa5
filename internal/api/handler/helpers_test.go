package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/api"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

var (
	alice     = identity.Actor{UserID: "alice", Role: identity.RoleParticipant}
	organizer = identity.Actor{UserID: "org-1", Role: identity.RoleOrganizer}
	admin     = identity.Actor{UserID: "admin-1", Role: identity.RoleAdministrator}
)

// newContext builds a handler context, optionally authenticated.
func newContext(e *echo.Echo, method, target, body string, actor *identity.Actor) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		api.SetActor(c, *actor)
	}
	return c, rec
}

func sampleEvent() *event.Event {
	start := time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)
	published := start.Add(-72 * time.Hour)
	return &event.Event{
		ID:               "ev-1",
		OrganizerID:      "org-1",
		Title:            "Beach volley open",
		Slug:             "beach-volley-open",
		EventType:        event.TypeTournament,
		Level:            event.LevelAll,
		StartAt:          start,
		EndAt:            start.Add(9 * time.Hour),
		Timezone:         event.DefaultTimezone,
		CapacityTotal:    24,
		CapacityReserved: 10,
		IsFree:           true,
		Currency:         event.DefaultCurrency,
		Status:           event.StatusPublished,
		PublishedAt:      &published,
		Version:          2,
	}
}
