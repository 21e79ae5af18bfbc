package media

import (
	"strings"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/retry"
)

const (
	MaxFilenameLength = 255
	MaxWidth          = 4100
	MaxHeight         = 20000

	DefaultUploadURLTTL    = 15 * time.Minute
	DefaultDownloadURLTTL  = 2 * time.Hour
	DefaultOrphanThreshold = 60 * time.Minute
)

// DefaultAllowedContentTypes lists the content type prefixes accepted at upload time.
var DefaultAllowedContentTypes = []string{"image/"}

// FixationPolicy waits for an uploaded object to become visible: 5 attempts,
// 1s apart. Transient backend failures back off exponentially from 1s instead.
func FixationPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:   5,
		Backoff:       retry.Fixed,
		Delay:         time.Second,
		Retryable:     retry.IsAny(ErrObjectNotFound, ErrConcurrencyConflict, ErrTransient),
		ExponentialOn: retry.IsAny(ErrTransient),
	}
}

// DeletionPolicy retries transient failures 3 times, doubling from 2s.
func DeletionPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Exponential,
		Delay:       2 * time.Second,
		Retryable:   retry.IsAny(ErrTransient, ErrConcurrencyConflict),
	}
}

func IsContentTypeAllowed(contentType string, allowedPrefixes []string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return false
	}
	if len(allowedPrefixes) == 0 {
		return true
	}
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(ct, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
