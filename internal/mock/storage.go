package mock

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

// Storage implements the storage interface for tests.
type Storage struct {
	// stored values
	StatInfoOut   port.FileInfo
	RemoveFilesFn func(bucket string, keys []string) (port.BulkRemoveResult, error)

	// captured inputs
	Bucket      string
	ObjectKey   string
	ContentType string
	TTL         time.Duration
	RemovedKeys []string

	// errors
	InitBucketErr           error
	GenerateDownloadLinkErr error
	GenerateUploadLinkErr   error
	StatErr                 error
	// StatErrs, when set, is consumed one error per StatFile call before
	// falling back to StatErr.
	StatErrs  []error
	RemoveErr error

	// call flags
	InitBucketCalled           bool
	GenerateDownloadLinkCalled bool
	GenerateUploadLinkCalled   bool
	StatCalls                  int
	RemoveCalls                int
	RemoveFilesCalls           int
}

func (m *Storage) InitBucket(ctx context.Context, bucket string) error {
	m.InitBucketCalled = true
	m.Bucket = bucket
	return m.InitBucketErr
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	m.GenerateDownloadLinkCalled = true
	m.Bucket = bucket
	m.ObjectKey = fileKey
	m.TTL = expiry
	if m.GenerateDownloadLinkErr != nil {
		return "", m.GenerateDownloadLinkErr
	}
	return "https://example.com/download/" + fileKey, nil
}

func (m *Storage) GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey, contentType string, expiry time.Duration) (string, error) {
	m.GenerateUploadLinkCalled = true
	m.Bucket = bucket
	m.ObjectKey = fileKey
	m.ContentType = contentType
	m.TTL = expiry
	if m.GenerateUploadLinkErr != nil {
		return "", m.GenerateUploadLinkErr
	}
	return "https://example.com/upload/" + fileKey, nil
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	m.StatCalls++
	if len(m.StatErrs) > 0 {
		err := m.StatErrs[0]
		m.StatErrs = m.StatErrs[1:]
		if err != nil {
			return port.FileInfo{}, err
		}
		return m.StatInfoOut, nil
	}
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.RemoveCalls++
	m.ObjectKey = fileKey
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.RemovedKeys = append(m.RemovedKeys, fileKey)
	return nil
}

func (m *Storage) RemoveFiles(ctx context.Context, bucket string, fileKeys []string) (port.BulkRemoveResult, error) {
	m.RemoveFilesCalls++
	if m.RemoveFilesFn != nil {
		return m.RemoveFilesFn(bucket, fileKeys)
	}
	m.RemovedKeys = append(m.RemovedKeys, fileKeys...)
	return port.BulkRemoveResult{Deleted: fileKeys, Errors: map[string]error{}}, nil
}
