package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore gives tests the service driver plus a raw client to look behind it.
type ObjectStore struct {
	Strg   *storage.MinioStorage
	Client *minio.Client
}

func NewObjectStore(endpoint, accessKey, secretKey string) (*ObjectStore, error) {
	strg, err := storage.NewMinioStorage(endpoint, accessKey, secretKey, false)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{Strg: strg, Client: client}, nil
}

// Bucket creates a uniquely named bucket through the driver and empties and
// removes it when t ends.
func (o *ObjectStore) Bucket(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	bucket := fmt.Sprintf("medias-%d", time.Now().UnixNano())

	if err := o.Strg.InitBucket(ctx, bucket); err != nil {
		t.Fatalf("could not create bucket %q: %v", bucket, err)
	}

	t.Cleanup(func() {
		for obj := range o.Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = o.Client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := o.Client.RemoveBucket(ctx, bucket); err != nil {
			t.Logf("could not remove bucket %q: %v", bucket, err)
		}
	})
	return bucket
}

// Exists reports whether key is stored in bucket.
func (o *ObjectStore) Exists(t *testing.T, bucket, key string) bool {
	t.Helper()
	_, err := o.Client.StatObject(context.Background(), bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false
	}
	t.Fatalf("stat %s/%s: %v", bucket, key, err)
	return false
}
