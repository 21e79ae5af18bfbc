package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/minio/minio-go/v7"
)

type mockMinio struct {
	bucketExistsFn       func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn         func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) (err error)
	removeObjectFn       func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	removeObjectsFn      func(ctx context.Context, bucketName string, keys []string) []minio.RemoveObjectError
	presignedGetObjectFn func(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error)
	presignHeaderFn      func(ctx context.Context, method, bucket, key string, expiry time.Duration, params url.Values, headers http.Header) (*url.URL, error)
	statObjectFn         func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) (err error) {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.removeObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, _ minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	var keys []string
	for o := range objectsCh {
		keys = append(keys, o.Key)
	}
	errs := m.removeObjectsFn(ctx, bucketName, keys)
	out := make(chan minio.RemoveObjectError, len(errs))
	for _, e := range errs {
		out <- e
	}
	close(out)
	return out
}
func (m *mockMinio) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error) {
	return m.presignedGetObjectFn(ctx, bucket, key, expiry, params)
}
func (m *mockMinio) PresignHeader(ctx context.Context, method, bucket, key string, expiry time.Duration, params url.Values, headers http.Header) (*url.URL, error) {
	return m.presignHeaderFn(ctx, method, bucket, key, expiry, params, headers)
}
func (m *mockMinio) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.statObjectFn(ctx, bucket, key, opts)
}

func minioErr(code string, status int) error {
	return minio.ErrorResponse{Code: code, StatusCode: status, Message: code}
}

func TestMinio_InitBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		wantMakeCalled bool
		wantErr        error
	}{
		{
			name:           "bucket exists, no create",
			exists:         true,
			wantMakeCalled: false,
		},
		{
			name:           "bucket does not exist, create succeeds",
			exists:         false,
			wantMakeCalled: true,
		},
		{
			name:      "BucketExists error bubbles up",
			existsErr: minioErr("AccessDenied", 403),
			wantErr:   media.ErrUnauthorized,
		},
		{
			name:           "MakeBucket error bubbles up",
			exists:         false,
			makeErr:        minioErr("InternalError", 500),
			wantMakeCalled: true,
			wantErr:        media.ErrTransient,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false

			mock := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					if bucketName != "my-bucket" {
						t.Errorf("bucket = %q; want my-bucket", bucketName)
					}
					return tc.makeErr
				},
			}

			err := (&MinioStorage{client: mock}).InitBucket(context.Background(), "my-bucket")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if makeCalled != tc.wantMakeCalled {
				t.Errorf("MakeBucket called = %v; want %v", makeCalled, tc.wantMakeCalled)
			}
		})
	}
}

func TestMinio_GeneratePresignedDownloadURL(t *testing.T) {
	fake, _ := url.Parse("https://cdn.example.com/download?x=1")
	mock := &mockMinio{
		presignedGetObjectFn: func(_ context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error) {
			if bucket != "my-bucket" {
				t.Errorf("bucket = %q; want %q", bucket, "my-bucket")
			}
			if key != "uploads/x/asset.png" {
				t.Errorf("key = %q; want %q", key, "uploads/x/asset.png")
			}
			if expiry != 2*time.Hour {
				t.Errorf("expiry = %v; want %v", expiry, 2*time.Hour)
			}
			return fake, nil
		},
	}
	s := &MinioStorage{client: mock}

	out, err := s.GeneratePresignedDownloadURL(context.Background(), "my-bucket", "uploads/x/asset.png", 2*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != fake.String() {
		t.Errorf("url = %q; want %q", out, fake.String())
	}
}

func TestMinio_GeneratePresignedDownloadURL_Error(t *testing.T) {
	mock := &mockMinio{
		presignedGetObjectFn: func(_ context.Context, _, _ string, _ time.Duration, _ url.Values) (*url.URL, error) {
			return nil, minioErr("NoSuchBucket", 404)
		},
	}
	s := &MinioStorage{client: mock}

	_, err := s.GeneratePresignedDownloadURL(context.Background(), "b", "k", 5*time.Minute)
	if !errors.Is(err, media.ErrBucketNotFound) {
		t.Fatalf("error = %v; want ErrBucketNotFound", err)
	}
}

func TestMinio_GeneratePresignedUploadURL(t *testing.T) {
	fake, _ := url.Parse("https://cdn.example.com/upload")
	mock := &mockMinio{
		presignHeaderFn: func(_ context.Context, method, bucket, key string, expiry time.Duration, _ url.Values, headers http.Header) (*url.URL, error) {
			if method != http.MethodPut {
				t.Errorf("method = %q; want PUT", method)
			}
			if bucket != "u-bucket" || key != "obj.jpg" {
				t.Errorf("target = %s/%s", bucket, key)
			}
			if expiry != 15*time.Minute {
				t.Errorf("expiry = %v; want %v", expiry, 15*time.Minute)
			}
			if ct := headers.Get("Content-Type"); ct != "image/jpeg" {
				t.Errorf("signed content type = %q; want image/jpeg", ct)
			}
			return fake, nil
		},
	}
	s := &MinioStorage{client: mock}

	out, err := s.GeneratePresignedUploadURL(context.Background(), "u-bucket", "obj.jpg", "image/jpeg", 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != fake.String() {
		t.Errorf("url = %q; want %q", out, fake.String())
	}
}

func TestMinio_StatFile(t *testing.T) {
	ctx := context.Background()

	ok := &MinioStorage{client: &mockMinio{
		statObjectFn: func(_ context.Context, _, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{Size: 2048, ContentType: "image/jpeg"}, nil
		},
	}}
	info, err := ok.StatFile(ctx, "b", "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SizeBytes != 2048 || info.ContentType != "image/jpeg" {
		t.Errorf("info = %+v", info)
	}

	missing := &MinioStorage{client: &mockMinio{
		statObjectFn: func(_ context.Context, _, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minioErr("NoSuchKey", 404)
		},
	}}
	if _, err := missing.StatFile(ctx, "b", "k"); !errors.Is(err, media.ErrObjectNotFound) {
		t.Errorf("error = %v; want ErrObjectNotFound", err)
	}
}

func TestMinio_RemoveFile(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"removed", nil, nil},
		{"already gone", minioErr("NoSuchKey", 404), nil},
		{"throttled", minioErr("SlowDown", 503), media.ErrTransient},
		{"denied", minioErr("AccessDenied", 403), media.ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &MinioStorage{client: &mockMinio{
				removeObjectFn: func(_ context.Context, _, _ string, _ minio.RemoveObjectOptions) error { return tc.err },
			}}
			err := s.RemoveFile(context.Background(), "b", "k")
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMinio_RemoveFiles(t *testing.T) {
	s := &MinioStorage{client: &mockMinio{
		removeObjectsFn: func(_ context.Context, bucket string, keys []string) []minio.RemoveObjectError {
			if bucket != "b" {
				t.Errorf("bucket = %q", bucket)
			}
			if len(keys) != 4 {
				t.Errorf("keys = %v", keys)
			}
			return []minio.RemoveObjectError{
				{ObjectName: "gone", Err: minioErr("NoSuchKey", 404)},
				{ObjectName: "stuck", Err: minioErr("InternalError", 500)},
			}
		},
	}}

	res, err := s.RemoveFiles(context.Background(), "b", []string{"a", "gone", "stuck", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(res.Deleted)
	if !reflect.DeepEqual(res.Deleted, []string{"a", "c", "gone"}) {
		t.Errorf("deleted = %v", res.Deleted)
	}
	if len(res.Errors) != 1 || !errors.Is(res.Errors["stuck"], media.ErrTransient) {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestMinio_RemoveFiles_RequestFailure(t *testing.T) {
	s := &MinioStorage{client: &mockMinio{
		removeObjectsFn: func(context.Context, string, []string) []minio.RemoveObjectError {
			return []minio.RemoveObjectError{{Err: minioErr("NoSuchBucket", 404)}}
		},
	}}

	res, err := s.RemoveFiles(context.Background(), "b", []string{"a"})
	if !errors.Is(err, media.ErrBucketNotFound) {
		t.Fatalf("error = %v; want ErrBucketNotFound", err)
	}
	if len(res.Deleted) != 0 {
		t.Errorf("no key may be reported deleted, got %v", res.Deleted)
	}
}

func TestMinio_RemoveFiles_Empty(t *testing.T) {
	s := &MinioStorage{client: &mockMinio{}}
	res, err := s.RemoveFiles(context.Background(), "b", nil)
	if err != nil || len(res.Deleted) != 0 {
		t.Fatalf("got (%+v, %v)", res, err)
	}
}
