package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPoolTTL = 10 * time.Minute
	poolCacheKey   = "quizpool:categories"
)

// PoolCache keeps the valid category pool in Redis to offload the database.
type PoolCache interface {
	Get(ctx context.Context) ([]Category, error)
	Set(ctx context.Context, pool []Category) error
}

// RedisPoolCache implements PoolCache. A miss returns nil, nil.
type RedisPoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ PoolCache = (*RedisPoolCache)(nil)

func NewRedisPoolCache(client *redis.Client, ttl time.Duration) *RedisPoolCache {
	if ttl <= 0 {
		ttl = defaultPoolTTL
	}
	return &RedisPoolCache{client: client, ttl: ttl}
}

func (c *RedisPoolCache) Get(ctx context.Context) ([]Category, error) {
	data, err := c.client.Get(ctx, poolCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var pool []Category
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (c *RedisPoolCache) Set(ctx context.Context, pool []Category) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, poolCacheKey, data, c.ttl).Err()
}
