package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/youssefbibani/platform-sport/internal/api"
	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
)

// headerIdentity trusts X-User-ID and X-User-Role.
func headerIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Request().Header.Get("X-User-ID"); id != "" {
			api.SetActor(c, identity.Actor{UserID: id, Role: identity.Role(c.Request().Header.Get("X-User-Role"))})
		}
		return next(c)
	}
}

type routedServices struct {
	events        *MockEventService
	participation *MockParticipationService
	moderation    *MockModerationService
	favorites     *MockFavoriteService
}

func newRoutedEcho() (*echo.Echo, routedServices) {
	s := routedServices{
		events:        new(MockEventService),
		participation: new(MockParticipationService),
		moderation:    new(MockModerationService),
		favorites:     new(MockFavoriteService),
	}
	e := NewTestEcho()
	RegisterRoutes(e, Handlers{
		Health:        NewHealthHandler(),
		Events:        NewEventHandler(s.events),
		Participation: NewParticipationHandler(s.participation),
		Moderation:    NewModerationHandler(s.moderation),
		Favorites:     NewFavoriteHandler(s.favorites),
	}, headerIdentity)
	return e, s
}

func TestRoutes_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"unknown event", participation.ErrEventNotJoinable, http.StatusNotFound, api.KindEventNotJoinable},
		{"organizer joining", participation.ErrRoleNotEligible, http.StatusForbidden, api.KindRoleNotEligible},
		{"paid event", participation.ErrPaymentRequired, http.StatusPaymentRequired, api.KindPaymentRequired},
		{"full", capacity.ErrCapacityExhausted, http.StatusConflict, api.KindCapacityExhausted},
		{"twice", participation.ErrAlreadyJoined, http.StatusConflict, api.KindAlreadyJoined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s := newRoutedEcho()
			s.participation.On("Join", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/events/beach-volley-open/join", nil)
			req.Header.Set("X-User-ID", "alice")
			req.Header.Set("X-User-Role", "participant")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestRoutes_IdentityRequired(t *testing.T) {
	e, _ := newRoutedEcho()

	for _, target := range []string{
		"/api/v1/me/participations",
		"/api/v1/favorites",
		"/api/v1/organizer/events",
		"/api/v1/admin/events",
		"/api/v1/admin/events/ev-1/capacity",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestRoutes_PublicAndModeration(t *testing.T) {
	e, s := newRoutedEcho()
	s.events.On("ListPublishedEvents", mock.Anything, 0, 0).Return([]*event.Event{}, nil)
	s.moderation.On("Moderate", mock.Anything, mock.Anything).Return(nil, event.ErrInvalidModerationTarget)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/events/ev-1/moderate", strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "administrator")
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	s.moderation.AssertExpectations(t)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_CapacityAudit(t *testing.T) {
	e, s := newRoutedEcho()
	s.participation.On("AuditCapacity", mock.Anything, mock.MatchedBy(func(a identity.Actor) bool {
		return a.Role == identity.RoleParticipant
	}), "ev-1").Return(nil, identity.ErrForbidden)
	s.participation.On("AuditCapacity", mock.Anything, mock.MatchedBy(func(a identity.Actor) bool {
		return a.Role == identity.RoleAdministrator
	}), "ev-1").Return(&application.CapacityAudit{
		Snapshot:             capacity.Snapshot{EventID: "ev-1", Total: 8, Reserved: 3},
		ActiveParticipations: 3,
	}, nil)

	get := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/events/ev-1/capacity", nil)
		req.Header.Set("X-User-ID", "someone")
		req.Header.Set("X-User-Role", role)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, get("participant").Code)

	rec := get("administrator")
	require.Equal(t, http.StatusOK, rec.Code)
	var body CapacityAuditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Consistent)
	assert.Equal(t, 5, body.CapacityAvailable)
}
