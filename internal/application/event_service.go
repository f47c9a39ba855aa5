package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
	"github.com/youssefbibani/platform-sport/internal/pkg/slug"
)

const maxSlugAttempts = 50

// EventService manages the organizer side of events.
type EventService struct {
	eventRepo event.Repository
	cache     CapacityCache
	clock     clock.Clock
}

func NewEventService(eventRepo event.Repository, cache CapacityCache, clk clock.Clock) *EventService {
	return &EventService{eventRepo: eventRepo, cache: cache, clock: clk}
}

// EventDetails are the organizer editable attributes.
type EventDetails struct {
	Title              string
	ShortDescription   string
	Description        string
	SportID            string
	CategoryID         string
	EventType          event.Type
	Level              event.Level
	StartAt            time.Time
	EndAt              time.Time
	Timezone           string
	LocationID         string
	CapacityTotal      int
	IsFree             bool
	Currency           string
	CancellationPolicy string
	CancellationPublic bool
	CoverImageURL      string
}

func (d EventDetails) applyTo(e *event.Event) {
	e.Title = d.Title
	e.ShortDescription = d.ShortDescription
	e.Description = d.Description
	e.SportID = d.SportID
	e.CategoryID = d.CategoryID
	e.EventType = d.EventType
	e.Level = d.Level
	e.StartAt = d.StartAt
	e.EndAt = d.EndAt
	e.Timezone = d.Timezone
	e.LocationID = d.LocationID
	e.CapacityTotal = d.CapacityTotal
	e.IsFree = d.IsFree
	e.Currency = d.Currency
	e.CancellationPolicy = d.CancellationPolicy
	e.CancellationPublic = d.CancellationPublic
	e.CoverImageURL = d.CoverImageURL

	if e.Level == "" {
		e.Level = event.LevelAll
	}
	if e.Timezone == "" {
		e.Timezone = event.DefaultTimezone
	}
	if e.Currency == "" {
		e.Currency = event.DefaultCurrency
	}
}

type CreateEventInput struct {
	Actor   identity.Actor
	Details EventDetails
	// Status defaults to draft.
	Status event.Status
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	if !input.Actor.IsOrganizer() {
		return nil, identity.ErrForbidden
	}

	now := s.clock.Now()
	e := event.NewEvent(input.Actor.UserID, input.Details.Title, input.Details.EventType,
		input.Details.StartAt, input.Details.EndAt, input.Details.CapacityTotal, input.Details.IsFree)
	input.Details.applyTo(e)
	e.CreatedAt = now
	e.UpdatedAt = now

	requested := input.Status
	if requested == "" {
		requested = event.StatusDraft
	}
	if err := e.ApplyStatus(input.Actor.Role, requested, now); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.createWithUniqueSlug(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// createWithUniqueSlug tries base, base-2, base-3 ... and retries when a
// concurrent insert wins the same slug.
func (s *EventService) createWithUniqueSlug(ctx context.Context, e *event.Event) error {
	base := slug.Make(e.Title, event.SlugMaxLength)
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n, event.SlugMaxLength)
		exists, err := s.eventRepo.SlugExists(ctx, candidate, "")
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		if exists {
			continue
		}

		e.Slug = candidate
		err = s.eventRepo.Create(ctx, e)
		if errors.Is(err, event.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	}
	return event.ErrSlugTaken
}

type UpdateEventInput struct {
	ID      string
	Actor   identity.Actor
	Details EventDetails
	// Status is left unchanged when nil.
	Status *event.Status
	// Version enables the optimistic lock against the caller's copy.
	Version *int
}

func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.managedEvent(ctx, input.ID, input.Actor)
	if err != nil {
		return nil, err
	}

	input.Details.applyTo(e)
	if input.Version != nil {
		e.Version = *input.Version
	}
	if input.Status != nil {
		if err := e.ApplyStatus(input.Actor.Role, *input.Status, s.clock.Now()); err != nil {
			return nil, err
		}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	expireCapacity(ctx, s.cache, e.Slug, e.Revision)
	return e, nil
}

// GetManagedEvent returns an event its owner or an administrator may edit.
func (s *EventService) GetManagedEvent(ctx context.Context, id string, actor identity.Actor) (*event.Event, error) {
	return s.managedEvent(ctx, id, actor)
}

// managedEvent hides events the actor does not manage behind ErrEventNotFound.
func (s *EventService) managedEvent(ctx context.Context, id string, actor identity.Actor) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsManagedBy(actor) {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

// GetPublishedEvent returns a published event by slug.
func (s *EventService) GetPublishedEvent(ctx context.Context, eventSlug string) (*event.Event, error) {
	e, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if e.Status != event.StatusPublished {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

func (s *EventService) ListPublishedEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.ListPublished(ctx, limit, offset)
}

func (s *EventService) ListOrganizerEvents(ctx context.Context, actor identity.Actor, limit, offset int) ([]*event.Event, error) {
	if !actor.IsOrganizer() {
		return nil, identity.ErrForbidden
	}
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.ListByOrganizer(ctx, actor.UserID, limit, offset)
}

func (s *EventService) DeleteEvent(ctx context.Context, id string, actor identity.Actor) error {
	e, err := s.managedEvent(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, e.ID); err != nil {
		return err
	}
	expireCapacity(ctx, s.cache, e.Slug, deletedRevision)
	return nil
}
