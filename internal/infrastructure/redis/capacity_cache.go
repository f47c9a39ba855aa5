package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
)

var ErrCacheMiss = errors.New("cache miss")

// storeScript writes a snapshot unless the entry already holds a newer
// revision. A tombstone at the same revision may be replaced.
var storeScript = redis.NewScript(`
	local current = redis.call("HMGET", KEYS[1], "rev", "gone")
	if current[1] then
		local stored = tonumber(current[1])
		local incoming = tonumber(ARGV[1])
		if incoming < stored or (incoming == stored and current[2] ~= "1") then
			return 0
		end
	end
	redis.call("DEL", KEYS[1])
	redis.call("HSET", KEYS[1], "rev", ARGV[1], "id", ARGV[2], "total", ARGV[3], "reserved", ARGV[4])
	redis.call("PEXPIRE", KEYS[1], ARGV[5])
	return 1
`)

// expireScript replaces the entry with a tombstone at revision unless a newer
// snapshot is already stored.
var expireScript = redis.NewScript(`
	local stored = redis.call("HGET", KEYS[1], "rev")
	if stored and tonumber(stored) > tonumber(ARGV[1]) then
		return 0
	end
	redis.call("DEL", KEYS[1])
	redis.call("HSET", KEYS[1], "rev", ARGV[1], "gone", "1")
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
	return 1
`)

type cachedSnapshot struct {
	Revision int64  `redis:"rev"`
	EventID  string `redis:"id"`
	Total    int    `redis:"total"`
	Reserved int    `redis:"reserved"`
	Gone     bool   `redis:"gone"`
}

// CapacityCache keeps the capacity snapshot of joinable events by slug.
// Entries are ordered by event revision so a slow writer never overwrites a
// newer snapshot.
type CapacityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCapacityCache(client *redis.Client, ttl time.Duration) *CapacityCache {
	return &CapacityCache{client: client, ttl: ttl}
}

// Get returns ErrCacheMiss when nothing usable is cached.
func (c *CapacityCache) Get(ctx context.Context, slug string) (capacity.Snapshot, error) {
	cmd := c.client.HGetAll(ctx, snapshotKey(slug))
	fields, err := cmd.Result()
	if err != nil {
		return capacity.Snapshot{}, fmt.Errorf("get cached capacity: %w", err)
	}
	if len(fields) == 0 {
		return capacity.Snapshot{}, ErrCacheMiss
	}

	var cached cachedSnapshot
	if err := cmd.Scan(&cached); err != nil {
		return capacity.Snapshot{}, fmt.Errorf("decode cached capacity: %w", err)
	}
	if cached.Gone || cached.EventID == "" {
		return capacity.Snapshot{}, ErrCacheMiss
	}
	return capacity.Snapshot{
		EventID:  cached.EventID,
		Total:    cached.Total,
		Reserved: cached.Reserved,
		Revision: cached.Revision,
	}, nil
}

// Store saves snapshot for slug. stored is false when a newer revision won.
func (c *CapacityCache) Store(ctx context.Context, slug string, snapshot capacity.Snapshot) (bool, error) {
	n, err := storeScript.Run(ctx, c.client, []string{snapshotKey(slug)},
		snapshot.Revision, snapshot.EventID, snapshot.Total, snapshot.Reserved, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("store cached capacity: %w", err)
	}
	return n == 1, nil
}

// Expire drops the snapshot of slug and refuses snapshots older than revision
// until the entry times out.
func (c *CapacityCache) Expire(ctx context.Context, slug string, revision int64) error {
	if err := expireScript.Run(ctx, c.client, []string{snapshotKey(slug)}, revision, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("expire cached capacity: %w", err)
	}
	return nil
}

func snapshotKey(slug string) string {
	return fmt.Sprintf("capacity:event:%s", slug)
}
