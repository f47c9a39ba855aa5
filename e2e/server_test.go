package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/youssefbibani/platform-sport/internal/api/handler"
	"github.com/youssefbibani/platform-sport/internal/api/middleware"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

type TestServer struct {
	Echo *echo.Echo
}

var (
	organizer = identity.Actor{UserID: "org-1", Role: identity.RoleOrganizer}
	admin     = identity.Actor{UserID: "admin-1", Role: identity.RoleAdministrator}
)

func participant(id string) identity.Actor {
	return identity.Actor{UserID: id, Role: identity.RoleParticipant}
}

// Request performs an HTTP call as actor. A nil actor sends no identity.
func (s *TestServer) Request(method, path string, body interface{}, actor *identity.Actor) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		req.Header.Set(middleware.HeaderUserID, actor.UserID)
		req.Header.Set(middleware.HeaderUserRole, string(actor.Role))
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type eventOptions struct {
	capacity int
	paid     bool
}

// createEvent creates an event as the organizer and leaves it in the requested status.
func createEvent(t *testing.T, s *TestServer, title, status string, opts eventOptions) handler.EventResponse {
	t.Helper()
	start := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	body := map[string]interface{}{
		"title":          title,
		"event_type":     "tournament",
		"start_at":       start,
		"end_at":         start.Add(6 * time.Hour),
		"capacity_total": opts.capacity,
		"is_free":        !opts.paid,
	}
	if status == "pending" {
		body["status"] = "published"
	}

	rec := s.Request(http.MethodPost, "/api/v1/organizer/events", body, &organizer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ev := decode[handler.EventResponse](t, rec)

	if status == "published" {
		rec = s.Request(http.MethodPut, "/api/v1/admin/events/"+ev.ID+"/status", map[string]string{"status": "published"}, &admin)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		ev = decode[handler.EventResponse](t, rec)
	}
	return ev
}

func joinPath(slug string) string {
	return fmt.Sprintf("/api/v1/events/%s/join", slug)
}

// assertLedgerConsistent checks that the reserved counter equals the active rows.
func assertLedgerConsistent(t *testing.T, eventID string) {
	t.Helper()
	var reserved, active int
	require.NoError(t, testDB.Get(&reserved, "SELECT capacity_reserved FROM events WHERE id = $1", eventID))
	require.NoError(t, testDB.Get(&active, "SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status = 'active'", eventID))
	require.Equal(t, active, reserved)
}
