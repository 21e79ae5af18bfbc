package port

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// IntentPublisher publishes asynchronous follow-up intents for a media.
// Publishing never waits for the intent to be processed.
type IntentPublisher interface {
	PublishFixate(ctx context.Context, id uuid.UUID) error
	PublishDelete(ctx context.Context, id uuid.UUID) error
}
