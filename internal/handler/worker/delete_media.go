package worker

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// DeleteMediaHandler handles a delete-media task.
func DeleteMediaHandler(ctx context.Context, p task.MediaPayload, svc port.MediaDeleter) error {
	id, err := uuid.Parse(p.MediaID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid media ID %q: %v", p.MediaID, err)
		return err
	}

	if err := svc.DeleteMedia(ctx, id); err != nil {
		logger.Errorf(ctx, "❌  Failed to delete media #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully deleted media #%s", id)
	return nil
}
