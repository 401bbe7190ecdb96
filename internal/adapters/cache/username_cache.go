package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "peerpay:username:"

// RedisUsernameCache caches id to username lookups in Redis.
// Usernames never change, so entries only expire to bound memory.
type RedisUsernameCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisUsernameCache connects to the Redis instance at url
func NewRedisUsernameCache(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*RedisUsernameCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisUsernameCache{client: client, ttl: ttl, logger: logger}, nil
}

func (c *RedisUsernameCache) key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get returns the cached username. Errors count as a miss.
func (c *RedisUsernameCache) Get(ctx context.Context, id uuid.UUID) (string, bool) {
	val, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("username cache miss", "id", id)
		return "", false
	}
	if err != nil {
		c.logger.Warn("username cache get error", "id", id, "error", err)
		return "", false
	}
	return val, true
}

// Set stores a username, logging failures
func (c *RedisUsernameCache) Set(ctx context.Context, id uuid.UUID, username string) {
	if err := c.client.Set(ctx, c.key(id), username, c.ttl).Err(); err != nil {
		c.logger.Warn("username cache set error", "id", id, "error", err)
	}
}

func (c *RedisUsernameCache) Close() error {
	return c.client.Close()
}

// NoopUsernameCache is used when Redis is not configured
type NoopUsernameCache struct{}

func (NoopUsernameCache) Get(context.Context, uuid.UUID) (string, bool) { return "", false }
func (NoopUsernameCache) Set(context.Context, uuid.UUID, string)         {}
func (NoopUsernameCache) Close() error                                   { return nil }
