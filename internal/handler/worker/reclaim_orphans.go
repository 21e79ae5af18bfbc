package worker

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

// ReclaimOrphansHandler runs one orphan sweep and logs its report.
func ReclaimOrphansHandler(ctx context.Context, svc port.OrphanReclaimer) error {
	rep, err := svc.ReclaimOrphans(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Orphan sweep failed: %v", err)
		return err
	}

	if rep.Failed > 0 {
		logger.Warnf(ctx, "orphan sweep reclaimed %d of %d candidates, %d failed", rep.Reclaimed, rep.Candidates, rep.Failed)
		return nil
	}
	logger.Infof(ctx, "✅  Orphan sweep reclaimed %d of %d candidates", rep.Reclaimed, rep.Candidates)
	return nil
}
