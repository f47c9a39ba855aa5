package application

import (
	"context"
	"fmt"

	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
	"github.com/youssefbibani/platform-sport/internal/pkg/metrics"
)

const (
	modeSingle = "single"
	modeBulk   = "bulk"
)

// ModerationService is the administrator review workflow.
type ModerationService struct {
	eventRepo event.Repository
	cache     CapacityCache
	metrics   *metrics.Metrics
	clock     clock.Clock
}

func NewModerationService(eventRepo event.Repository, cache CapacityCache, m *metrics.Metrics, clk clock.Clock) *ModerationService {
	return &ModerationService{eventRepo: eventRepo, cache: cache, metrics: m, clock: clk}
}

type ModerateInput struct {
	EventID  string
	Decision event.Status
	Actor    identity.Actor
}

// Moderate publishes or rejects one pending event.
func (s *ModerationService) Moderate(ctx context.Context, input ModerateInput) (*event.Event, error) {
	if !input.Actor.IsAdministrator() {
		return nil, event.ErrUnauthorizedTransition
	}
	target, err := event.ModerationTarget(input.Decision)
	if err != nil {
		return nil, err
	}

	publishedAt := event.PublishedAt(event.StatusPending, target, nil, s.clock.Now())
	ev, err := s.eventRepo.ModeratePending(ctx, input.EventID, target, publishedAt)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordModeration(modeSingle, string(target), 1)
	return ev, nil
}

type BulkModerateInput struct {
	Decision event.BulkDecision
	Criteria event.ModerationCriteria
	Actor    identity.Actor
}

// BulkModerate moves every pending event matching the criteria in one statement
// and returns how many were affected. No match is not an error. Pending events
// are never cached, so there is nothing to expire.
func (s *ModerationService) BulkModerate(ctx context.Context, input BulkModerateInput) (int, error) {
	if !input.Actor.IsAdministrator() {
		return 0, event.ErrUnauthorizedTransition
	}
	target, err := input.Decision.Target()
	if err != nil {
		return 0, err
	}

	publishedAt := event.PublishedAt(event.StatusPending, target, nil, s.clock.Now())
	affected, err := s.eventRepo.BulkModeratePending(ctx, input.Criteria, target, publishedAt)
	if err != nil {
		return 0, fmt.Errorf("bulk moderate: %w", err)
	}
	s.metrics.RecordModeration(modeBulk, string(target), affected)
	return affected, nil
}

// ListByStatus lists events for review, pending by default.
func (s *ModerationService) ListByStatus(ctx context.Context, actor identity.Actor, status event.Status, limit, offset int) ([]*event.Event, error) {
	if !actor.IsAdministrator() {
		return nil, identity.ErrForbidden
	}
	if status == "" {
		status = event.StatusPending
	}
	if !status.Valid() {
		return nil, &event.ValidationError{Field: "status", Message: "unknown status", Err: event.ErrInvalidStatus}
	}
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.ListByStatus(ctx, status, limit, offset)
}

type SetStatusInput struct {
	EventID string
	Status  event.Status
	Actor   identity.Actor
	Version *int
}

// SetStatus is the administrator override that applies any lifecycle status.
func (s *ModerationService) SetStatus(ctx context.Context, input SetStatusInput) (*event.Event, error) {
	if !input.Actor.IsAdministrator() {
		return nil, event.ErrUnauthorizedTransition
	}
	ev, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if input.Version != nil {
		ev.Version = *input.Version
	}
	if err := ev.ApplyStatus(input.Actor.Role, input.Status, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, ev); err != nil {
		return nil, err
	}
	expireCapacity(ctx, s.cache, ev.Slug, ev.Revision)
	return ev, nil
}
