package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Cache{client: rdb}
}

// Ping checks the Redis server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetMediaURL(ctx context.Context, id uuid.UUID) (string, error) {
	logger.Debugf(ctx, "getting cached URL for media #%s...", id)

	val, err := c.client.Get(ctx, getCacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil // cache miss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetMediaURL caches url until validUntil. Failures are only logged, the
// cache is never a source of truth.
func (c *Cache) SetMediaURL(ctx context.Context, id uuid.UUID, url string, validUntil time.Time) {
	ttl := time.Until(validUntil)
	if ttl <= 0 {
		return
	}
	logger.Debugf(ctx, "caching URL for media #%s, valid until %s...", id, validUntil.Format(time.RFC1123))

	if err := c.client.Set(ctx, getCacheKey(id), url, ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set failed for media #%s: %v", id, err)
	}
}

func (c *Cache) DeleteMediaURL(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "deleting cached URL for media #%s...", id)

	if err := c.client.Del(ctx, getCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id uuid.UUID) string {
	return "media_url:" + id.String()
}
