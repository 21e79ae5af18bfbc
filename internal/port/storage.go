package port

import (
	"context"
	"time"
)

// FileInfo represents metadata about a stored file.
type FileInfo struct {
	SizeBytes   int64
	ContentType string
}

// BulkRemoveResult lists which keys of a bulk removal were confirmed deleted
// and which failed, keyed by object key.
type BulkRemoveResult struct {
	Deleted []string
	Errors  map[string]error
}

// Storage defines file storage operations.
type Storage interface {
	InitBucket(ctx context.Context, bucket string) error
	GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error)
	GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey, contentType string, expiry time.Duration) (string, error)
	StatFile(ctx context.Context, bucket, fileKey string) (FileInfo, error)
	RemoveFile(ctx context.Context, bucket, fileKey string) error
	RemoveFiles(ctx context.Context, bucket string, fileKeys []string) (BulkRemoveResult, error)
}
