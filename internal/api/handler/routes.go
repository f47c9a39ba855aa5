package handler

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health        *HealthHandler
	Events        *EventHandler
	Participation *ParticipationHandler
	Moderation    *ModerationHandler
	Favorites     *FavoriteHandler
}

// RegisterRoutes mounts the HTTP API. identity guards every route that needs a caller.
func RegisterRoutes(e *echo.Echo, h Handlers, identity echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/events", h.Events.List)
	v1.GET("/events/:slug", h.Events.GetBySlug)
	v1.GET("/events/:slug/join", h.Participation.Status, identity)
	v1.POST("/events/:slug/join", h.Participation.Join, identity)
	v1.DELETE("/events/:slug/join", h.Participation.Leave, identity)

	v1.GET("/me/participations", h.Participation.ListMine, identity)

	favorites := v1.Group("/favorites", identity)
	favorites.GET("", h.Favorites.List)
	favorites.POST("", h.Favorites.Add)
	favorites.DELETE("/:event_id", h.Favorites.Remove)

	organizer := v1.Group("/organizer/events", identity)
	organizer.GET("", h.Events.ListMine)
	organizer.POST("", h.Events.Create)
	organizer.GET("/:id", h.Events.Get)
	organizer.PUT("/:id", h.Events.Update)
	organizer.DELETE("/:id", h.Events.Delete)

	admin := v1.Group("/admin/events", identity)
	admin.GET("", h.Moderation.List)
	admin.POST("/moderate", h.Moderation.BulkModerate)
	admin.POST("/:id/moderate", h.Moderation.Moderate)
	admin.PUT("/:id/status", h.Moderation.SetStatus)
	admin.GET("/:id/capacity", h.Participation.Audit)
}
