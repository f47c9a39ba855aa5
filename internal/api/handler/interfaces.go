package handler

import (
	"context"

	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
)

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	GetManagedEvent(ctx context.Context, id string, actor identity.Actor) (*event.Event, error)
	GetPublishedEvent(ctx context.Context, slug string) (*event.Event, error)
	ListPublishedEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	ListOrganizerEvents(ctx context.Context, actor identity.Actor, limit, offset int) ([]*event.Event, error)
	DeleteEvent(ctx context.Context, id string, actor identity.Actor) error
}

type ParticipationServiceInterface interface {
	Join(ctx context.Context, input application.JoinInput) (*application.JoinResult, error)
	Leave(ctx context.Context, input application.LeaveInput) (*application.LeaveResult, error)
	GetJoinStatus(ctx context.Context, eventSlug, userID string) (*application.JoinStatus, error)
	ListMyParticipations(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error)
	AuditCapacity(ctx context.Context, actor identity.Actor, eventID string) (*application.CapacityAudit, error)
}

type ModerationServiceInterface interface {
	Moderate(ctx context.Context, input application.ModerateInput) (*event.Event, error)
	BulkModerate(ctx context.Context, input application.BulkModerateInput) (int, error)
	ListByStatus(ctx context.Context, actor identity.Actor, status event.Status, limit, offset int) ([]*event.Event, error)
	SetStatus(ctx context.Context, input application.SetStatusInput) (*event.Event, error)
}

type FavoriteServiceInterface interface {
	AddFavorite(ctx context.Context, userID, eventID string) (*favorite.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, eventID string) error
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*favorite.Favorite, error)
}
