package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
)

// maxDeleteBatch is the largest number of keys S3 accepts in one DeleteObjects call.
const maxDeleteBatch = 1000

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

type S3Storage struct {
	client    s3Client
	presigner s3Presigner
	region    string
}

// compile-time check: *S3Storage must satisfy port.Storage
var _ port.Storage = (*S3Storage)(nil)

// NewS3Storage builds an S3 driver. Without explicit keys the default AWS
// credential chain is used; Endpoint points it at any S3 compatible store.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	logger.Info(ctx, "initialising s3 client...")
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return &S3Storage{client: client, presigner: s3.NewPresignClient(client), region: cfg.Region}, nil
}

func (s *S3Storage) InitBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if err = mapS3Err(err); !errors.Is(err, media.ErrObjectNotFound) && !errors.Is(err, media.ErrBucketNotFound) {
		return err
	}

	logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
	in := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if s.region != "" && s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	_, err = s.client.CreateBucket(ctx, in)
	return mapS3Err(err)
}

func (s *S3Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned download link for file %q in bucket %q...", fileKey, bucket)

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", mapS3Err(err)
	}
	return req.URL, nil
}

func (s *S3Storage) GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey, contentType string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned upload link for file %q in bucket %q...", fileKey, bucket)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", mapS3Err(err)
	}
	return req.URL, nil
}

func (s *S3Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	logger.Debugf(ctx, "getting stats on file %q in bucket %q...", fileKey, bucket)

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return port.FileInfo{}, mapS3Err(err)
	}
	return port.FileInfo{
		SizeBytes:   aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

func (s *S3Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	logger.Debugf(ctx, "removing file %q from bucket %q...", fileKey, bucket)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	})
	err = mapS3Err(err)
	if errors.Is(err, media.ErrObjectNotFound) {
		return nil
	}
	return err
}

// RemoveFiles issues one DeleteObjects request per batch of 1000 keys. A failed
// batch marks all of its keys as failed and the next batches still run.
func (s *S3Storage) RemoveFiles(ctx context.Context, bucket string, fileKeys []string) (port.BulkRemoveResult, error) {
	res := port.BulkRemoveResult{Errors: map[string]error{}}
	logger.Debugf(ctx, "removing %d files from bucket %q...", len(fileKeys), bucket)

	for start := 0; start < len(fileKeys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(fileKeys))
		batch := fileKeys[start:end]

		objects := make([]types.ObjectIdentifier, 0, len(batch))
		for _, key := range batch {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(false)},
		})
		if err != nil {
			err = mapS3Err(err)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, media.ErrBucketNotFound) {
				return port.BulkRemoveResult{}, err
			}
			for _, key := range batch {
				res.Errors[key] = err
			}
			continue
		}

		for _, e := range out.Errors {
			key := aws.ToString(e.Key)
			err := classify(aws.ToString(e.Code), 0, errors.New(aws.ToString(e.Message)))
			if errors.Is(err, media.ErrObjectNotFound) {
				res.Deleted = append(res.Deleted, key)
				continue
			}
			res.Errors[key] = err
		}
		for _, d := range out.Deleted {
			res.Deleted = append(res.Deleted, aws.ToString(d.Key))
		}
	}
	return res, nil
}
