package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/youssefbibani/platform-sport/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, err := NewClient(context.Background(), &config.RedisConfig{Host: "localhost", Port: "6379", DB: 15})
	if err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}
