package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type URLResolverConfig struct {
	Bucket string
	TTL    time.Duration
}

type urlResolverSrv struct {
	repo  port.MediaRepository
	cache port.Cache
	strg  port.Storage
	cfg   URLResolverConfig
	now   func() time.Time
}

// compile-time check: *urlResolverSrv must satisfy port.URLResolver
var _ port.URLResolver = (*urlResolverSrv)(nil)

func NewURLResolver(repo port.MediaRepository, cache port.Cache, strg port.Storage, cfg URLResolverConfig) port.URLResolver {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultDownloadURLTTL
	}
	return &urlResolverSrv{repo: repo, cache: cache, strg: strg, cfg: cfg, now: time.Now}
}

// ResolveURL returns a presigned download URL for the media.
// found is false, with a nil error, when no such media exists.
func (s *urlResolverSrv) ResolveURL(ctx context.Context, id uuid.UUID) (string, bool, error) {
	if url, err := s.cache.GetMediaURL(ctx, id); err != nil {
		logger.Warnf(ctx, "failed reading cached URL for media #%s: %v", id, err)
	} else if url != "" {
		return url, true, nil
	}

	media, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrMediaNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	url, err := s.strg.GeneratePresignedDownloadURL(ctx, media.Bucket, media.ObjectKey, s.cfg.TTL)
	if err != nil {
		return "", false, err
	}

	// cached URLs must never outlive their signature
	s.cache.SetMediaURL(ctx, id, url, s.now().Add(s.cfg.TTL/2))

	// A deletion that finished while we were presigning has already cleared
	// the cache, so the entry just written would outlive the media.
	if _, err := s.repo.GetByID(ctx, id); errors.Is(err, ErrMediaNotFound) {
		if err := s.cache.DeleteMediaURL(ctx, id); err != nil {
			logger.Warnf(ctx, "failed evicting cached URL of deleted media #%s: %v", id, err)
		}
		return "", false, nil
	} else if err != nil {
		logger.Warnf(ctx, "could not confirm media #%s still exists: %v", id, err)
	}
	return url, true, nil
}

// ResolveKeyURL presigns a raw object key of the media bucket.
func (s *urlResolverSrv) ResolveKeyURL(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: key is required", ErrValidation)
	}
	return s.strg.GeneratePresignedDownloadURL(ctx, s.cfg.Bucket, key, s.cfg.TTL)
}

// ResolveKeyURLs presigns every key, keyed by the key itself. Duplicates are
// presigned once.
func (s *urlResolverSrv) ResolveKeyURLs(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if _, done := out[key]; done {
			continue
		}
		url, err := s.ResolveKeyURL(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("resolve key %q: %w", key, err)
		}
		out[key] = url
	}
	return out, nil
}
