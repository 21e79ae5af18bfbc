package media

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type deletionRequesterSrv struct {
	repo port.MediaRepository
	pub  port.IntentPublisher
}

// compile-time check: *deletionRequesterSrv must satisfy port.DeletionRequester
var _ port.DeletionRequester = (*deletionRequesterSrv)(nil)

func NewDeletionRequester(repo port.MediaRepository, pub port.IntentPublisher) port.DeletionRequester {
	return &deletionRequesterSrv{repo: repo, pub: pub}
}

// RequestDeletion returns ErrMediaNotFound for unknown medias, otherwise it
// publishes a deletion intent without waiting for it to be processed.
func (s *deletionRequesterSrv) RequestDeletion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.pub.PublishDelete(ctx, id); err != nil {
		return err
	}
	logger.Infof(ctx, "deletion requested for media #%s", id)
	return nil
}
