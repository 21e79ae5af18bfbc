package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// MediaRepository defines persistence operations for medias.
// Update and Delete are version-checked: a stale media.Version yields a concurrency conflict.
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	Update(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.Media, error)
	Delete(ctx context.Context, ID uuid.UUID, version int64) error
	ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]*model.Media, error)
	DeletePending(ctx context.Context, IDs []uuid.UUID) (int64, error)
	StillPending(ctx context.Context, IDs []uuid.UUID) ([]uuid.UUID, error)
}
