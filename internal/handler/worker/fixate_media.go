package worker

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// FixateMediaHandler handles a fixate-media task.
// It converts the incoming task payload to the ID expected by
// the port.MediaFixer service and delegates the call.
func FixateMediaHandler(ctx context.Context, p task.MediaPayload, svc port.MediaFixer) error {
	id, err := uuid.Parse(p.MediaID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid media ID %q: %v", p.MediaID, err)
		return err
	}

	if err := svc.FixateMedia(ctx, id); err != nil {
		logger.Errorf(ctx, "❌  Failed to fixate media #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully fixated media #%s", id)
	return nil
}
