package port

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// UploadLinkGenerator returns a presigned link to upload a file.
type UploadLinkGenerator interface {
	GenerateUploadLink(ctx context.Context, in GenerateUploadLinkInput) (GenerateUploadLinkOutput, error)
}
type GenerateUploadLinkInput struct {
	OriginalFilename string
	ContentType      string
	Width            *int
	Height           *int
}
type GenerateUploadLinkOutput struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	S3Key string    `json:"s3Key"`
}

// MediaFixer confirms an upload landed in storage and commits its metadata.
type MediaFixer interface {
	FixateMedia(ctx context.Context, id uuid.UUID) error
}

// MediaDeleter deletes a media file and its record.
type MediaDeleter interface {
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// DeletionRequester checks a media exists and publishes its deletion intent.
type DeletionRequester interface {
	RequestDeletion(ctx context.Context, id uuid.UUID) error
}

// FixationRequester publishes a fixation intent.
type FixationRequester interface {
	RequestFixation(ctx context.Context, id uuid.UUID) error
}

// URLResolver turns media IDs or raw object keys into presigned download URLs.
type URLResolver interface {
	ResolveURL(ctx context.Context, id uuid.UUID) (string, bool, error)
	ResolveKeyURL(ctx context.Context, key string) (string, error)
	ResolveKeyURLs(ctx context.Context, keys []string) (map[string]string, error)
}

// OrphanReclaimer removes pending medias whose upload was never confirmed.
type OrphanReclaimer interface {
	ReclaimOrphans(ctx context.Context) (ReclaimReport, error)
}
type ReclaimReport struct {
	Candidates int
	Reclaimed  int
	Failed     int
}
