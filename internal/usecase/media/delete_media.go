package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/retry"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type mediaDeleterSrv struct {
	repo   port.MediaRepository
	cache  port.Cache
	strg   port.Storage
	policy retry.Policy
}

// compile-time check: *mediaDeleterSrv must satisfy port.MediaDeleter
var _ port.MediaDeleter = (*mediaDeleterSrv)(nil)

func NewMediaDeleter(repo port.MediaRepository, cache port.Cache, strg port.Storage) port.MediaDeleter {
	return &mediaDeleterSrv{repo: repo, cache: cache, strg: strg, policy: DeletionPolicy()}
}

// DeleteMedia removes the stored object, then the record, then the cached URL.
// An object already gone from storage still lets the record go.
func (s *mediaDeleterSrv) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	absent := false
	policy := s.policy
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warnf(ctx, "deletion attempt %d for media #%s failed, retrying in %s: %v", attempt, id, wait, err)
	}

	err := policy.Do(ctx, func(ctx context.Context) error {
		media, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, ErrMediaNotFound) {
			absent = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.strg.RemoveFile(ctx, media.Bucket, media.ObjectKey); err != nil {
			return err
		}
		return s.repo.Delete(ctx, media.ID, media.Version)
	})

	if err != nil {
		metrics.Deletions.WithLabelValues(metrics.ResultAbandoned).Inc()
		return fmt.Errorf("delete media #%s: %w", id, err)
	}

	if err := s.cache.DeleteMediaURL(ctx, id); err != nil {
		logger.Warnf(ctx, "failed deleting cached URL for media #%s: %v", id, err)
	}

	if absent {
		metrics.Deletions.WithLabelValues(metrics.ResultAbsent).Inc()
		logger.Infof(ctx, "media #%s does not exist, nothing to delete", id)
		return nil
	}
	metrics.Deletions.WithLabelValues(metrics.ResultDeleted).Inc()
	logger.Infof(ctx, "✅  media #%s deleted", id)
	return nil
}
