package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
	"github.com/youssefbibani/platform-sport/internal/domain/transaction"
)

// fakeStore is an in-memory transactional store. Transactions are serialised
// and work on a private copy that is only published on commit, which is enough
// to observe rollback and last-seat behaviour without a database.
type fakeStore struct {
	event.Repository // only GetBySlug is used

	txLock sync.Mutex
	mu     sync.Mutex
	events map[string]*event.Event
	parts  map[string]participation.Status
}

func newFakeStore(events ...*event.Event) *fakeStore {
	s := &fakeStore{
		events: make(map[string]*event.Event),
		parts:  make(map[string]participation.Status),
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

type fakeTx struct {
	store     *fakeStore
	reserved  map[string]int
	revisions map[string]int64
	parts    map[string]participation.Status
	done     bool
}

func partKey(eventID, userID string) string { return eventID + "|" + userID }

func (s *fakeStore) Begin(ctx context.Context) (transaction.Tx, error) {
	s.txLock.Lock()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fakeTx{
		store:     s,
		reserved:  make(map[string]int),
		revisions: make(map[string]int64),
		parts:     make(map[string]participation.Status),
	}
	for id, e := range s.events {
		tx.reserved[id] = e.CapacityReserved
		tx.revisions[id] = e.Revision
	}
	for k, v := range s.parts {
		tx.parts[k] = v
	}
	return tx, nil
}

func (tx *fakeTx) Commit() error {
	if tx.done {
		return errors.New("transaction already closed")
	}
	tx.done = true
	s := tx.store
	s.mu.Lock()
	for id, reserved := range tx.reserved {
		s.events[id].CapacityReserved = reserved
		s.events[id].Revision = tx.revisions[id]
	}
	s.parts = tx.parts
	s.mu.Unlock()
	s.txLock.Unlock()
	return nil
}

func (tx *fakeTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.store.txLock.Unlock()
	return nil
}

func (s *fakeStore) GetBySlug(ctx context.Context, slug string) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Slug == slug {
			c := *e
			return &c, nil
		}
	}
	return nil, event.ErrEventNotFound
}

// participation.Repository

func (s *fakeStore) Activate(ctx context.Context, t transaction.Tx, p *participation.Participation) error {
	tx := t.(*fakeTx)
	key := partKey(p.EventID, p.UserID)
	if tx.parts[key] == participation.StatusActive {
		return participation.ErrAlreadyJoined
	}
	tx.parts[key] = participation.StatusActive
	p.ID = key
	return nil
}

func (s *fakeStore) Cancel(ctx context.Context, t transaction.Tx, eventID, userID string) (bool, error) {
	tx := t.(*fakeTx)
	key := partKey(eventID, userID)
	if tx.parts[key] != participation.StatusActive {
		return false, nil
	}
	tx.parts[key] = participation.StatusCancelled
	return true, nil
}

func (s *fakeStore) IsActive(ctx context.Context, eventID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parts[partKey(eventID, userID)] == participation.StatusActive, nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*participation.Entry, error) {
	return nil, nil
}

func (s *fakeStore) CountActive(ctx context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, status := range s.parts {
		if status == participation.StatusActive && strings.HasPrefix(key, eventID+"|") {
			n++
		}
	}
	return n, nil
}

// capacity.Ledger

func (s *fakeStore) Reserve(ctx context.Context, t transaction.Tx, eventID string) (capacity.Snapshot, error) {
	tx := t.(*fakeTx)
	total := s.total(eventID)
	if tx.reserved[eventID] >= total {
		return capacity.Snapshot{}, capacity.ErrCapacityExhausted
	}
	tx.reserved[eventID]++
	tx.revisions[eventID]++
	return capacity.Snapshot{EventID: eventID, Total: total, Reserved: tx.reserved[eventID], Revision: tx.revisions[eventID]}, nil
}

func (s *fakeStore) Release(ctx context.Context, t transaction.Tx, eventID string) (capacity.Snapshot, error) {
	tx := t.(*fakeTx)
	if tx.reserved[eventID] <= 0 {
		return capacity.Snapshot{}, capacity.ErrNothingToRelease
	}
	tx.reserved[eventID]--
	tx.revisions[eventID]++
	return capacity.Snapshot{EventID: eventID, Total: s.total(eventID), Reserved: tx.reserved[eventID], Revision: tx.revisions[eventID]}, nil
}

func (s *fakeStore) Get(ctx context.Context, eventID string) (capacity.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return capacity.Snapshot{}, event.ErrEventNotFound
	}
	return e.CapacitySnapshot(), nil
}

func (s *fakeStore) total(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[eventID].CapacityTotal
}

func (s *fakeStore) reserved(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[eventID].CapacityReserved
}

// fakeCache orders snapshots by revision the way the redis cache does.
// beforeStore runs ahead of every Store and lets a test interleave writes.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]fakeEntry
	beforeStore func(slug string, snapshot capacity.Snapshot)
}

type fakeEntry struct {
	snapshot capacity.Snapshot
	gone     bool
}

var errFakeMiss = errors.New("cache miss")

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]fakeEntry)}
}

func (c *fakeCache) Get(ctx context.Context, slug string) (capacity.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[slug]
	if !ok || entry.gone {
		return capacity.Snapshot{}, errFakeMiss
	}
	return entry.snapshot, nil
}

func (c *fakeCache) Store(ctx context.Context, slug string, snapshot capacity.Snapshot) (bool, error) {
	if hook := c.beforeStore; hook != nil {
		c.beforeStore = nil
		hook(slug, snapshot)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[slug]; ok {
		stored := entry.snapshot.Revision
		if snapshot.Revision < stored || (snapshot.Revision == stored && !entry.gone) {
			return false, nil
		}
	}
	c.entries[slug] = fakeEntry{snapshot: snapshot}
	return true, nil
}

func (c *fakeCache) Expire(ctx context.Context, slug string, revision int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[slug]; ok && entry.snapshot.Revision > revision {
		return nil
	}
	c.entries[slug] = fakeEntry{snapshot: capacity.Snapshot{Revision: revision}, gone: true}
	return nil
}
