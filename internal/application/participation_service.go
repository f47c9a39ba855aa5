package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
	"github.com/youssefbibani/platform-sport/internal/pkg/metrics"
)

const (
	operationJoin  = "join"
	operationLeave = "leave"
)

// ParticipationService coordinates joining and leaving events. The registry
// row and the capacity counter always change in the same transaction.
type ParticipationService struct {
	txManager transaction.Manager
	eventRepo event.Repository
	registry  participation.Repository
	ledger    capacity.Ledger
	cache     CapacityCache
	metrics   *metrics.Metrics
	clock     clock.Clock
}

func NewParticipationService(
	txManager transaction.Manager,
	eventRepo event.Repository,
	registry participation.Repository,
	ledger capacity.Ledger,
	cache CapacityCache,
	m *metrics.Metrics,
	clk clock.Clock,
) *ParticipationService {
	return &ParticipationService{
		txManager: txManager,
		eventRepo: eventRepo,
		registry:  registry,
		ledger:    ledger,
		cache:     cache,
		metrics:   m,
		clock:     clk,
	}
}

type JoinInput struct {
	EventSlug string
	Actor     identity.Actor
}

type JoinResult struct {
	Joined            bool
	CapacityAvailable int
	Participation     *participation.Participation
}

// Join checks eligibility in a fixed order, then activates the participation
// and reserves a seat atomically.
func (s *ParticipationService) Join(ctx context.Context, input JoinInput) (*JoinResult, error) {
	result, err := s.join(ctx, input)
	s.metrics.RecordParticipation(operationJoin, participationResult(err))
	return result, err
}

func (s *ParticipationService) join(ctx context.Context, input JoinInput) (*JoinResult, error) {
	ev, err := s.joinableEvent(ctx, input.EventSlug)
	if err != nil {
		return nil, err
	}
	if !input.Actor.IsParticipant() {
		return nil, participation.ErrRoleNotEligible
	}
	if !ev.IsFree {
		return nil, participation.ErrPaymentRequired
	}
	if ev.CapacityAvailable() <= 0 {
		return nil, capacity.ErrCapacityExhausted
	}

	p := participation.NewParticipation(ev.ID, input.Actor.UserID)
	now := s.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	var snapshot capacity.Snapshot
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.registry.Activate(ctx, tx, p); err != nil {
			return err
		}
		var err error
		snapshot, err = s.ledger.Reserve(ctx, tx, ev.ID)
		return err
	})
	if err != nil {
		if isParticipationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("join event: %w", err)
	}

	storeCapacity(ctx, s.cache, ev.Slug, snapshot)
	return &JoinResult{
		Joined:            true,
		CapacityAvailable: snapshot.Available(),
		Participation:     p,
	}, nil
}

type LeaveInput struct {
	EventSlug string
	Actor     identity.Actor
}

type LeaveResult struct {
	Joined            bool
	CapacityAvailable int
}

// Leave cancels the caller's participation. Leaving an event the caller has
// not joined succeeds without side effects.
func (s *ParticipationService) Leave(ctx context.Context, input LeaveInput) (*LeaveResult, error) {
	result, err := s.leave(ctx, input)
	s.metrics.RecordParticipation(operationLeave, participationResult(err))
	return result, err
}

func (s *ParticipationService) leave(ctx context.Context, input LeaveInput) (*LeaveResult, error) {
	ev, err := s.joinableEvent(ctx, input.EventSlug)
	if err != nil {
		return nil, err
	}

	available := ev.CapacityAvailable()
	var (
		snapshot capacity.Snapshot
		released bool
	)
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		cancelled, err := s.registry.Cancel(ctx, tx, ev.ID, input.Actor.UserID)
		if err != nil || !cancelled {
			return err
		}
		snapshot, err = s.ledger.Release(ctx, tx, ev.ID)
		if errors.Is(err, capacity.ErrNothingToRelease) {
			logger.Warn("released participation without a reserved seat",
				zap.String("event_id", ev.ID),
				zap.String("user_id", input.Actor.UserID),
			)
			return nil
		}
		if err != nil {
			return err
		}
		released = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("leave event: %w", err)
	}

	if released {
		available = snapshot.Available()
		storeCapacity(ctx, s.cache, ev.Slug, snapshot)
	}
	return &LeaveResult{Joined: false, CapacityAvailable: available}, nil
}

type JoinStatus struct {
	Joined            bool
	CapacityAvailable int
}

// GetJoinStatus is read only. A cached snapshot replaces the event lookup;
// Join and Leave keep it current.
func (s *ParticipationService) GetJoinStatus(ctx context.Context, eventSlug, userID string) (*JoinStatus, error) {
	snapshot, err := s.statusSnapshot(ctx, eventSlug)
	if err != nil {
		return nil, err
	}

	joined, err := s.registry.IsActive(ctx, snapshot.EventID, userID)
	if err != nil {
		return nil, fmt.Errorf("get join status: %w", err)
	}

	return &JoinStatus{
		Joined:            joined,
		CapacityAvailable: snapshot.Available(),
	}, nil
}

func (s *ParticipationService) statusSnapshot(ctx context.Context, eventSlug string) (capacity.Snapshot, error) {
	if s.cache != nil {
		if snapshot, err := s.cache.Get(ctx, eventSlug); err == nil {
			s.metrics.RecordCache("hit")
			return snapshot, nil
		}
		s.metrics.RecordCache("miss")
	}

	ev, err := s.joinableEvent(ctx, eventSlug)
	if err != nil {
		return capacity.Snapshot{}, err
	}
	snapshot := ev.CapacitySnapshot()
	storeCapacity(ctx, s.cache, eventSlug, snapshot)
	return snapshot, nil
}

func (s *ParticipationService) ListMyParticipations(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error) {
	limit, offset = normalizePage(limit, offset)
	return s.registry.ListByUser(ctx, userID, limit, offset)
}

// auditAttempts bounds how often AuditCapacity re-reads when a join or leave
// commits between its reads.
const auditAttempts = 3

// CapacityAudit compares the ledger with the registry of one event.
type CapacityAudit struct {
	Snapshot             capacity.Snapshot
	ActiveParticipations int
}

// Consistent reports whether every reserved seat belongs to an active participation.
func (a *CapacityAudit) Consistent() bool {
	return a.Snapshot.Reserved == a.ActiveParticipations
}

// AuditCapacity reads the ledger and the active participation count of an
// event. The count is accepted only when the ledger revision did not move
// around it.
func (s *ParticipationService) AuditCapacity(ctx context.Context, actor identity.Actor, eventID string) (*CapacityAudit, error) {
	if !actor.IsAdministrator() {
		return nil, identity.ErrForbidden
	}

	var audit *CapacityAudit
	for range auditAttempts {
		before, err := s.ledger.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		active, err := s.registry.CountActive(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("audit capacity: %w", err)
		}
		after, err := s.ledger.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}

		audit = &CapacityAudit{Snapshot: after, ActiveParticipations: active}
		if before.Revision == after.Revision {
			break
		}
	}

	if !audit.Consistent() {
		logger.Warn("capacity ledger disagrees with participations",
			zap.String("event_id", eventID),
			zap.Int("reserved", audit.Snapshot.Reserved),
			zap.Int("active", audit.ActiveParticipations),
		)
	}
	return audit, nil
}

// joinableEvent resolves a slug to a published event. Unknown and unpublished
// events are indistinguishable to callers.
func (s *ParticipationService) joinableEvent(ctx context.Context, eventSlug string) (*event.Event, error) {
	ev, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return nil, participation.ErrEventNotJoinable
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if !ev.IsJoinable() {
		return nil, participation.ErrEventNotJoinable
	}
	return ev, nil
}

func isParticipationError(err error) bool {
	return errors.Is(err, participation.ErrAlreadyJoined) ||
		errors.Is(err, participation.ErrEventNotJoinable) ||
		errors.Is(err, capacity.ErrCapacityExhausted)
}

func participationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, participation.ErrEventNotJoinable):
		return metrics.ResultNotJoinable
	case errors.Is(err, participation.ErrRoleNotEligible):
		return metrics.ResultRoleNotEligible
	case errors.Is(err, participation.ErrPaymentRequired):
		return metrics.ResultPaymentRequired
	case errors.Is(err, capacity.ErrCapacityExhausted):
		return metrics.ResultCapacityExhausted
	case errors.Is(err, participation.ErrAlreadyJoined):
		return metrics.ResultAlreadyJoined
	}
	return metrics.ResultError
}
