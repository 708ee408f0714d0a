package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const roleKeyPrefix = "identity:role:"

// RedisCache caches resolved roles with a TTL so the user directory is not
// hit on every request. Stale entries age out; admin role changes take
// effect within one TTL window.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, userID string) (Role, bool) {
	val, err := c.client.Get(ctx, roleKeyPrefix+userID).Result()
	if err != nil {
		return "", false
	}
	return Role(val), true
}

func (c *RedisCache) Set(ctx context.Context, userID string, role Role) error {
	if err := c.client.Set(ctx, roleKeyPrefix+userID, string(role), c.ttl).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
