package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
	"github.com/youssefbibani/platform-sport/internal/pkg/metrics"
)

const (
	completionLockKey   = "worker:event-completion"
	completionBatchSize = 100
)

// EventCompleter moves up to limit published events that have ended to
// completed and returns them.
type EventCompleter interface {
	CompleteEnded(ctx context.Context, now time.Time, limit int) ([]*event.Event, error)
}

// CapacityExpirer drops cached capacity of events that left the published state.
type CapacityExpirer interface {
	Expire(ctx context.Context, slug string, revision int64) error
}

// Lease is a held lock.
type Lease interface {
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// Locker serializes sweeps across replicas. TryLock returns a nil Lease when
// the lock is held elsewhere.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error)
}

// EventCompletionSweeper periodically completes ended events.
type EventCompletionSweeper struct {
	completer EventCompleter
	locker    Locker
	cache     CapacityExpirer
	metrics   *metrics.Metrics
	clock     clock.Clock
	interval  time.Duration
	lockTTL   time.Duration
	batchSize int
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewEventCompletionSweeper(
	completer EventCompleter,
	locker Locker,
	cache CapacityExpirer,
	m *metrics.Metrics,
	clk clock.Clock,
	interval time.Duration,
	lockTTL time.Duration,
) *EventCompletionSweeper {
	return &EventCompletionSweeper{
		completer: completer,
		locker:    locker,
		cache:     cache,
		metrics:   m,
		clock:     clk,
		interval:  interval,
		lockTTL:   lockTTL,
		batchSize: completionBatchSize,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Enabled reports whether a positive interval was configured.
func (s *EventCompletionSweeper) Enabled() bool {
	return s.interval > 0
}

// Start blocks until ctx is done or Stop is called.
func (s *EventCompletionSweeper) Start(ctx context.Context) {
	defer close(s.doneCh)
	if !s.Enabled() {
		logger.Info("event completion sweeper disabled")
		return
	}

	logger.Info("event completion sweeper started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("event completion sweeper stopped", zap.String("reason", "context"))
			return
		case <-s.stopCh:
			logger.Info("event completion sweeper stopped", zap.String("reason", "stop"))
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop ends the loop and waits for the current sweep.
func (s *EventCompletionSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *EventCompletionSweeper) sweep(ctx context.Context) {
	log := logger.Get()

	var lease Lease
	if s.locker != nil {
		held, acquired, err := s.locker.TryLock(ctx, completionLockKey, s.lockTTL)
		if err != nil {
			log.Error("event completion lock failed", zap.Error(err))
			return
		}
		if !acquired {
			log.Debug("event completion sweep running elsewhere")
			return
		}
		lease = held
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("event completion lock release failed", zap.Error(err))
			}
		}()
	}

	now := s.clock.Now()
	total := 0
	defer func() {
		s.metrics.RecordCompleted(total)
		if total > 0 {
			log.Info("completed ended events", zap.Int("count", total))
		}
	}()

	for {
		completed, err := s.completer.CompleteEnded(ctx, now, s.batchSize)
		if err != nil {
			log.Error("event completion sweep failed", zap.Error(err))
			return
		}
		total += len(completed)
		s.expire(ctx, completed)

		if len(completed) < s.batchSize {
			return
		}
		// a full batch means more may be waiting; keep the lock for the next one
		if lease != nil {
			if err := lease.Extend(ctx, s.lockTTL); err != nil {
				log.Warn("event completion lock lost", zap.Int("completed", total), zap.Error(err))
				return
			}
		}
	}
}

func (s *EventCompletionSweeper) expire(ctx context.Context, completed []*event.Event) {
	if s.cache == nil {
		return
	}
	for _, e := range completed {
		if err := s.cache.Expire(ctx, e.Slug, e.Revision); err != nil {
			logger.Warn("capacity cache expiry failed", zap.String("slug", e.Slug), zap.Error(err))
		}
	}
}
