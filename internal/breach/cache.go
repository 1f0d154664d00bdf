package breach

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const rangeKeyPrefix = "passgen:range:"

// RedisCache is a RangeCache backed by Redis with a fixed TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a RangeCache on rdb. Entries expire after ttl.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, prefix string) (string, bool, error) {
	body, err := c.rdb.Get(ctx, rangeKeyPrefix+prefix).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

func (c *RedisCache) Set(ctx context.Context, prefix, body string) error {
	return c.rdb.Set(ctx, rangeKeyPrefix+prefix, body, c.ttl).Err()
}
