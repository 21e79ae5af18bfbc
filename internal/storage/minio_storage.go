package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client minioClient
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool) (*MinioStorage, error) {
	logger.Info(context.Background(), "initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{client: client}, nil
}

func (s *MinioStorage) InitBucket(ctx context.Context, bucket string) error {
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	return nil
}

func (s *MinioStorage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned download link for file %q in bucket %q...", fileKey, bucket)

	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, fileKey, expiry, url.Values{})
	if err != nil {
		return "", mapMinioErr(err)
	}

	return presignedURL.String(), nil
}

// GeneratePresignedUploadURL signs a PUT that only accepts the declared content type.
func (s *MinioStorage) GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey, contentType string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned upload link for file %q in bucket %q...", fileKey, bucket)

	headers := http.Header{}
	headers.Set("Content-Type", contentType)
	presignedURL, err := s.client.PresignHeader(ctx, http.MethodPut, bucket, fileKey, expiry, url.Values{}, headers)
	if err != nil {
		return "", mapMinioErr(err)
	}

	return presignedURL.String(), nil
}

func (s *MinioStorage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	logger.Debugf(ctx, "getting stats on file %q in bucket %q...", fileKey, bucket)

	info, err := s.client.StatObject(ctx, bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		return port.FileInfo{}, mapMinioErr(err)
	}
	return port.FileInfo{
		SizeBytes:   info.Size,
		ContentType: info.ContentType,
	}, nil
}

// RemoveFile deletes a file. A file that is already gone is not an error.
func (s *MinioStorage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	logger.Debugf(ctx, "removing file %q from bucket %q...", fileKey, bucket)

	err := mapMinioErr(s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}))
	if errors.Is(err, media.ErrObjectNotFound) {
		return nil
	}
	return err
}

// RemoveFiles deletes all keys in as few requests as the client allows.
// Keys that are already gone count as deleted.
func (s *MinioStorage) RemoveFiles(ctx context.Context, bucket string, fileKeys []string) (port.BulkRemoveResult, error) {
	res := port.BulkRemoveResult{Errors: map[string]error{}}
	if len(fileKeys) == 0 {
		return res, nil
	}
	logger.Debugf(ctx, "removing %d files from bucket %q...", len(fileKeys), bucket)

	objectsCh := make(chan minio.ObjectInfo, len(fileKeys))
	for _, key := range fileKeys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	for rErr := range s.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err == nil {
			continue
		}
		err := mapMinioErr(rErr.Err)
		if errors.Is(err, media.ErrObjectNotFound) {
			continue
		}
		if rErr.ObjectName == "" {
			// request level failure, no key can be trusted as removed
			return port.BulkRemoveResult{}, err
		}
		res.Errors[rErr.ObjectName] = err
	}
	if err := ctx.Err(); err != nil {
		return port.BulkRemoveResult{}, err
	}

	for _, key := range fileKeys {
		if _, failed := res.Errors[key]; !failed {
			res.Deleted = append(res.Deleted, key)
		}
	}
	return res, nil
}
