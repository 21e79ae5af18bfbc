package cache

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	url        string
	validUntil time.Time
}

// MemoryCache is an in-process URL cache, used when no Redis is configured.
type MemoryCache struct {
	lru *expirable.LRU[uuid.UUID, memoryEntry]
	now func() time.Time
}

// compile-time check: *MemoryCache must satisfy port.Cache
var _ port.Cache = (*MemoryCache)(nil)

// NewMemory keeps up to size URLs, none of them longer than maxTTL.
func NewMemory(size int, maxTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[uuid.UUID, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (c *MemoryCache) GetMediaURL(ctx context.Context, id uuid.UUID) (string, error) {
	e, ok := c.lru.Get(id)
	if !ok {
		return "", nil
	}
	if !c.now().Before(e.validUntil) {
		c.lru.Remove(id)
		return "", nil
	}
	return e.url, nil
}

func (c *MemoryCache) SetMediaURL(ctx context.Context, id uuid.UUID, url string, validUntil time.Time) {
	if !c.now().Before(validUntil) {
		return
	}
	c.lru.Add(id, memoryEntry{url: url, validUntil: validUntil})
}

func (c *MemoryCache) DeleteMediaURL(ctx context.Context, id uuid.UUID) error {
	c.lru.Remove(id)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
