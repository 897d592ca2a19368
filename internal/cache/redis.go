package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a redis-backed Cache for multi-instance deployments.
type Redis struct {
	client *redis.Client
}

// NewRedis connects a Redis cache at the given address.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: client}
}

// Get fetches a cached value. Any redis error is treated as a miss.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with the given TTL; a zero TTL means no expiry.
func (r *Redis) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
