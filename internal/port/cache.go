package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// Cache keeps resolved download URLs of medias until shortly before they expire.
// A miss is reported as an empty string with a nil error.
type Cache interface {
	GetMediaURL(ctx context.Context, id uuid.UUID) (string, error)
	SetMediaURL(ctx context.Context, id uuid.UUID, url string, validUntil time.Time)
	DeleteMediaURL(ctx context.Context, id uuid.UUID) error
}
