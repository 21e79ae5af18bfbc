package media

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type orphanReclaimerSrv struct {
	repo      port.MediaRepository
	strg      port.Storage
	threshold time.Duration
	now       func() time.Time
}

// compile-time check: *orphanReclaimerSrv must satisfy port.OrphanReclaimer
var _ port.OrphanReclaimer = (*orphanReclaimerSrv)(nil)

func NewOrphanReclaimer(repo port.MediaRepository, strg port.Storage, threshold time.Duration) port.OrphanReclaimer {
	if threshold <= 0 {
		threshold = DefaultOrphanThreshold
	}
	return &orphanReclaimerSrv{repo: repo, strg: strg, threshold: threshold, now: time.Now}
}

// ReclaimOrphans deletes pending medias older than the threshold together with
// whatever their upload left in storage. A record is only dropped once its
// object removal is confirmed; failed keys are picked up by the next sweep.
func (s *orphanReclaimerSrv) ReclaimOrphans(ctx context.Context) (port.ReclaimReport, error) {
	start := time.Now()
	defer func() { metrics.ReclaimDuration.Observe(time.Since(start).Seconds()) }()

	cutoff := s.now().Add(-s.threshold)
	orphans, err := s.repo.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return port.ReclaimReport{}, fmt.Errorf("list orphans: %w", err)
	}
	report := port.ReclaimReport{Candidates: len(orphans)}
	if len(orphans) == 0 {
		logger.Info(ctx, "no orphaned medias to reclaim")
		return report, nil
	}

	byBucket := make(map[string][]*model.Media)
	var buckets []string
	for _, m := range orphans {
		if _, ok := byBucket[m.Bucket]; !ok {
			buckets = append(buckets, m.Bucket)
		}
		byBucket[m.Bucket] = append(byBucket[m.Bucket], m)
	}

	var confirmed []uuid.UUID
	for _, bucket := range buckets {
		medias := byBucket[bucket]

		// A fixation may have committed some of them since the listing.
		ids := make([]uuid.UUID, 0, len(medias))
		for _, m := range medias {
			ids = append(ids, m.ID)
		}
		stillPending, err := s.repo.StillPending(ctx, ids)
		if err != nil {
			logger.Errorf(ctx, "failed re-checking %d orphans of bucket %q: %v", len(ids), bucket, err)
			report.Failed += len(ids)
			continue
		}
		pending := make(map[uuid.UUID]struct{}, len(stillPending))
		for _, id := range stillPending {
			pending[id] = struct{}{}
		}

		idByKey := make(map[string]uuid.UUID, len(medias))
		keys := make([]string, 0, len(medias))
		for _, m := range medias {
			if _, ok := pending[m.ID]; !ok {
				logger.Infof(ctx, "media #%s left pending since listing, keeping it", m.ID)
				continue
			}
			idByKey[m.ObjectKey] = m.ID
			keys = append(keys, m.ObjectKey)
		}
		if len(keys) == 0 {
			continue
		}

		res, err := s.strg.RemoveFiles(ctx, bucket, keys)
		if err != nil {
			logger.Errorf(ctx, "failed removing %d orphaned objects from bucket %q: %v", len(keys), bucket, err)
			report.Failed += len(keys)
			continue
		}
		for key, kerr := range res.Errors {
			logger.Warnf(ctx, "failed removing orphaned object %q: %v", key, kerr)
		}
		report.Failed += len(res.Errors)
		for _, key := range res.Deleted {
			if id, ok := idByKey[key]; ok {
				confirmed = append(confirmed, id)
			}
		}
	}

	if len(confirmed) > 0 {
		n, err := s.repo.DeletePending(ctx, confirmed)
		if err != nil {
			metrics.Orphans.WithLabelValues(metrics.ResultFailed).Add(float64(report.Failed))
			return report, fmt.Errorf("delete %d orphaned records: %w", len(confirmed), err)
		}
		report.Reclaimed = int(n)
	}

	metrics.Orphans.WithLabelValues(metrics.ResultReclaimed).Add(float64(report.Reclaimed))
	metrics.Orphans.WithLabelValues(metrics.ResultFailed).Add(float64(report.Failed))
	logger.Infof(ctx, "✅  reclaimed %d/%d orphaned medias (%d failed)", report.Reclaimed, report.Candidates, report.Failed)
	return report, nil
}
