package mock

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// Cache implements cache behaviour for tests.
type Cache struct {
	// stored values
	URLOut     string
	ValidUntil time.Time

	// errors
	GetURLErr error
	DelURLErr error

	// call flags
	GetURLCalled bool
	SetURLCalled bool
	DelURLCalled bool
}

func (c *Cache) GetMediaURL(ctx context.Context, id uuid.UUID) (string, error) {
	c.GetURLCalled = true
	if c.GetURLErr != nil {
		return "", c.GetURLErr
	}
	return c.URLOut, nil
}

func (c *Cache) SetMediaURL(ctx context.Context, id uuid.UUID, url string, validUntil time.Time) {
	c.SetURLCalled = true
	c.URLOut = url
	c.ValidUntil = validUntil
}

func (c *Cache) DeleteMediaURL(ctx context.Context, id uuid.UUID) error {
	c.DelURLCalled = true
	if c.DelURLErr == nil {
		c.URLOut = ""
	}
	return c.DelURLErr
}
