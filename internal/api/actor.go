package api

import (
	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

const actorKey = "actor"

// SetActor stores the authenticated caller on the request context.
func SetActor(c echo.Context, actor identity.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the caller set by the identity middleware.
func ActorFrom(c echo.Context) (identity.Actor, bool) {
	actor, ok := c.Get(actorKey).(identity.Actor)
	return actor, ok && actor.UserID != ""
}
