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

type mediaFixerSrv struct {
	repo   port.MediaRepository
	strg   port.Storage
	policy retry.Policy
}

// compile-time check: *mediaFixerSrv must satisfy port.MediaFixer
var _ port.MediaFixer = (*mediaFixerSrv)(nil)

func NewMediaFixer(repo port.MediaRepository, strg port.Storage) port.MediaFixer {
	return &mediaFixerSrv{repo: repo, strg: strg, policy: FixationPolicy()}
}

// FixateMedia waits for the uploaded object to be visible in storage, then
// commits its size and content type. Every attempt starts from a fresh read of
// the record. A media that no longer exists is not an error.
func (s *mediaFixerSrv) FixateMedia(ctx context.Context, id uuid.UUID) error {
	absent := false
	policy := s.policy
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warnf(ctx, "fixation attempt %d for media #%s failed, retrying in %s: %v", attempt, id, wait, err)
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

		info, err := s.strg.StatFile(ctx, media.Bucket, media.ObjectKey)
		if err != nil {
			return err
		}

		media.Commit(info.SizeBytes, info.ContentType)
		return s.repo.Update(ctx, media)
	})

	switch {
	case err == nil && absent:
		metrics.Fixations.WithLabelValues(metrics.ResultAbsent).Inc()
		logger.Infof(ctx, "media #%s does not exist anymore, nothing to fixate", id)
		return nil
	case err == nil:
		metrics.Fixations.WithLabelValues(metrics.ResultCommitted).Inc()
		logger.Infof(ctx, "✅  media #%s committed", id)
		return nil
	case errors.Is(err, retry.ErrExhausted) && errors.Is(err, ErrObjectNotFound):
		metrics.Fixations.WithLabelValues(metrics.ResultNotVisible).Inc()
	default:
		metrics.Fixations.WithLabelValues(metrics.ResultFailed).Inc()
	}
	return fmt.Errorf("fixate media #%s: %w", id, err)
}
