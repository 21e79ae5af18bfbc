package media

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

type UploadLinkConfig struct {
	Bucket              string
	TTL                 time.Duration
	AllowedContentTypes []string
}

type uploadLinkGeneratorSrv struct {
	repo  port.MediaRepository
	strg  port.Storage
	genID port.UUIDGen
	cfg   UploadLinkConfig
	now   func() time.Time
}

// compile-time check: *uploadLinkGeneratorSrv must satisfy port.UploadLinkGenerator
var _ port.UploadLinkGenerator = (*uploadLinkGeneratorSrv)(nil)

func NewUploadLinkGenerator(repo port.MediaRepository, strg port.Storage, genID port.UUIDGen, cfg UploadLinkConfig) port.UploadLinkGenerator {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultUploadURLTTL
	}
	return &uploadLinkGeneratorSrv{repo: repo, strg: strg, genID: genID, cfg: cfg, now: time.Now}
}

// GenerateUploadLink stores a pending media and returns a presigned PUT URL for it.
// The record is written before presigning, so an upload link never exists
// without a trace the orphan reclaimer can find.
func (s *uploadLinkGeneratorSrv) GenerateUploadLink(ctx context.Context, in port.GenerateUploadLinkInput) (port.GenerateUploadLinkOutput, error) {
	if err := s.validate(in); err != nil {
		return port.GenerateUploadLinkOutput{}, err
	}

	id := s.genID()
	media := &model.Media{
		ID:               id,
		Bucket:           s.cfg.Bucket,
		ObjectKey:        model.ObjectKeyFor(id, in.OriginalFilename),
		OriginalFilename: in.OriginalFilename,
		Status:           model.MediaStatusPending,
		Width:            in.Width,
		Height:           in.Height,
		CreatedAt:        s.now().UTC(),
	}
	if sub, ok := api_context.AuthUserIDFromContext(ctx); ok {
		media.CreatedBy = &sub
	}

	if err := s.repo.Create(ctx, media); err != nil {
		return port.GenerateUploadLinkOutput{}, err
	}

	url, err := s.strg.GeneratePresignedUploadURL(ctx, media.Bucket, media.ObjectKey, in.ContentType, s.cfg.TTL)
	if err != nil {
		return port.GenerateUploadLinkOutput{}, err
	}

	metrics.UploadLinksIssued.Inc()
	logger.Infof(ctx, "issued upload link for media #%s (key %q, valid %s)", media.ID, media.ObjectKey, s.cfg.TTL)

	return port.GenerateUploadLinkOutput{
		ID:    media.ID,
		URL:   url,
		S3Key: media.ObjectKey,
	}, nil
}

func (s *uploadLinkGeneratorSrv) validate(in port.GenerateUploadLinkInput) error {
	name := in.OriginalFilename
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: original filename is required", ErrValidation)
	case utf8.RuneCountInString(name) > MaxFilenameLength:
		return fmt.Errorf("%w: original filename exceeds %d characters", ErrValidation, MaxFilenameLength)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: original filename must not contain path separators", ErrValidation)
	case name == "." || name == "..":
		return fmt.Errorf("%w: original filename %q is not allowed", ErrValidation, name)
	}

	if strings.TrimSpace(in.ContentType) == "" {
		return fmt.Errorf("%w: content type is required", ErrValidation)
	}
	if !IsContentTypeAllowed(in.ContentType, s.cfg.AllowedContentTypes) {
		return fmt.Errorf("%w: content type %q is not allowed", ErrValidation, in.ContentType)
	}

	if in.Width != nil && (*in.Width <= 0 || *in.Width > MaxWidth) {
		return fmt.Errorf("%w: width must be between 1 and %d", ErrValidation, MaxWidth)
	}
	if in.Height != nil && (*in.Height <= 0 || *in.Height > MaxHeight) {
		return fmt.Errorf("%w: height must be between 1 and %d", ErrValidation, MaxHeight)
	}
	return nil
}
