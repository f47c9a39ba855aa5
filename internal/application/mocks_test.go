package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

// === Mock implementations ===

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*event.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) ListPublished(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, organizerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByStatus(ctx context.Context, status event.Status, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) ModeratePending(ctx context.Context, id string, target event.Status, publishedAt *time.Time) (*event.Event, error) {
	args := m.Called(ctx, id, target, publishedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) BulkModeratePending(ctx context.Context, criteria event.ModerationCriteria, target event.Status, publishedAt *time.Time) (int, error) {
	args := m.Called(ctx, criteria, target, publishedAt)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) CompleteEnded(ctx context.Context, now time.Time, limit int) ([]*event.Event, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Activate(ctx context.Context, tx transaction.Tx, p *participation.Participation) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

func (m *MockParticipationRepository) Cancel(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	args := m.Called(ctx, tx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipationRepository) IsActive(ctx context.Context, eventID, userID string) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Entry), args.Error(1)
}

func (m *MockParticipationRepository) CountActive(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Reserve(ctx context.Context, tx transaction.Tx, eventID string) (capacity.Snapshot, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Get(0).(capacity.Snapshot), args.Error(1)
}

func (m *MockLedger) Release(ctx context.Context, tx transaction.Tx, eventID string) (capacity.Snapshot, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Get(0).(capacity.Snapshot), args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, eventID string) (capacity.Snapshot, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(capacity.Snapshot), args.Error(1)
}

type MockCapacityCache struct {
	mock.Mock
}

func (m *MockCapacityCache) Get(ctx context.Context, slug string) (capacity.Snapshot, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(capacity.Snapshot), args.Error(1)
}

func (m *MockCapacityCache) Store(ctx context.Context, slug string, snapshot capacity.Snapshot) (bool, error) {
	args := m.Called(ctx, slug, snapshot)
	return args.Bool(0), args.Error(1)
}

func (m *MockCapacityCache) Expire(ctx context.Context, slug string, revision int64) error {
	args := m.Called(ctx, slug, revision)
	return args.Error(0)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, eventID string) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*favorite.Favorite, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*favorite.Favorite), args.Error(1)
}
