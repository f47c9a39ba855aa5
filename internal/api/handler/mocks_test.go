package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetManagedEvent(ctx context.Context, id string, actor identity.Actor) (*event.Event, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetPublishedEvent(ctx context.Context, slug string) (*event.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListPublishedEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListOrganizerEvents(ctx context.Context, actor identity.Actor, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id string, actor identity.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

type MockParticipationService struct {
	mock.Mock
}

func (m *MockParticipationService) Join(ctx context.Context, input application.JoinInput) (*application.JoinResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.JoinResult), args.Error(1)
}

func (m *MockParticipationService) Leave(ctx context.Context, input application.LeaveInput) (*application.LeaveResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.LeaveResult), args.Error(1)
}

func (m *MockParticipationService) GetJoinStatus(ctx context.Context, eventSlug, userID string) (*application.JoinStatus, error) {
	args := m.Called(ctx, eventSlug, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.JoinStatus), args.Error(1)
}

func (m *MockParticipationService) ListMyParticipations(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Entry), args.Error(1)
}

func (m *MockParticipationService) AuditCapacity(ctx context.Context, actor identity.Actor, eventID string) (*application.CapacityAudit, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CapacityAudit), args.Error(1)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Moderate(ctx context.Context, input application.ModerateInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockModerationService) BulkModerate(ctx context.Context, input application.BulkModerateInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func (m *MockModerationService) ListByStatus(ctx context.Context, actor identity.Actor, status event.Status, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, actor, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockModerationService) SetStatus(ctx context.Context, input application.SetStatusInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, eventID string) (*favorite.Favorite, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*favorite.Favorite), args.Error(1)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockFavoriteService) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*favorite.Favorite, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*favorite.Favorite), args.Error(1)
}
