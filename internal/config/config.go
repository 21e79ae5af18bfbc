package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverMinio = "minio"
	StorageDriverS3    = "s3"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MediaBucket         string
	AllowedContentTypes []string
	UploadURLTTL        time.Duration
	DownloadURLTTL      time.Duration
	OrphanThreshold     time.Duration
	ReclaimInterval     time.Duration

	StorageDriver  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PathStyle    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WorkerConcurrency int
	LocalQueueSize    int
	URLCacheSize      int

	JWTPublicKey string
	JWTIssuer    string
	JWTAudience  string
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MEDIA_BUCKET", "medias")
	v.SetDefault("MEDIA_ALLOWED_CONTENT_TYPES", "image/")
	v.SetDefault("UPLOAD_URL_TTL", "15m")
	v.SetDefault("DOWNLOAD_URL_TTL", "2h")
	v.SetDefault("ORPHAN_THRESHOLD", "60m")
	v.SetDefault("RECLAIM_INTERVAL", "60m")
	v.SetDefault("STORAGE_DRIVER", StorageDriverMinio)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("LOCAL_QUEUE_SIZE", 1000)
	v.SetDefault("URL_CACHE_SIZE", 10000)
	v.SetDefault("JWT_ISSUER", "core")
	v.SetDefault("JWT_AUDIENCE", "medias")
}

func Load() (*Settings, error) {
	ctx := context.Background()
	if err := godotenv.Load(".env"); err != nil {
		logger.Debug(ctx, "no .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		logger.Debugf(ctx, "could not read .env file: %v", err)
	}

	for _, key := range required {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      v.GetInt("SERVER_PORT"),

		MediaBucket:         v.GetString("MEDIA_BUCKET"),
		AllowedContentTypes: splitList(v.GetString("MEDIA_ALLOWED_CONTENT_TYPES")),
		UploadURLTTL:        v.GetDuration("UPLOAD_URL_TTL"),
		DownloadURLTTL:      v.GetDuration("DOWNLOAD_URL_TTL"),
		OrphanThreshold:     v.GetDuration("ORPHAN_THRESHOLD"),
		ReclaimInterval:     v.GetDuration("RECLAIM_INTERVAL"),

		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		S3Region:       v.GetString("S3_REGION"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3AccessKey:    v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:    v.GetString("S3_SECRET_KEY"),
		S3PathStyle:    v.GetBool("S3_PATH_STYLE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		LocalQueueSize:    v.GetInt("LOCAL_QUEUE_SIZE"),
		URLCacheSize:      v.GetInt("URL_CACHE_SIZE"),

		JWTPublicKey: v.GetString("JWT_PUBLIC_KEY"),
		JWTIssuer:    v.GetString("JWT_ISSUER"),
		JWTAudience:  v.GetString("JWT_AUDIENCE"),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.StorageDriver {
	case StorageDriverMinio:
		if s.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required with STORAGE_DRIVER=%s", StorageDriverMinio)
		}
	case StorageDriverS3:
		if s.S3Region == "" {
			return fmt.Errorf("S3_REGION is required with STORAGE_DRIVER=%s", StorageDriverS3)
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverMinio, StorageDriverS3, s.StorageDriver)
	}

	if s.MediaBucket == "" {
		return fmt.Errorf("MEDIA_BUCKET must not be empty")
	}
	if len(s.AllowedContentTypes) == 0 {
		return fmt.Errorf("MEDIA_ALLOWED_CONTENT_TYPES must list at least one prefix")
	}

	durations := map[string]time.Duration{
		"UPLOAD_URL_TTL":   s.UploadURLTTL,
		"DOWNLOAD_URL_TTL": s.DownloadURLTTL,
		"ORPHAN_THRESHOLD": s.OrphanThreshold,
		"RECLAIM_INTERVAL": s.ReclaimInterval,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}
	// an orphan must outlive the link that could still fill it
	if s.OrphanThreshold <= s.UploadURLTTL {
		return fmt.Errorf("ORPHAN_THRESHOLD (%s) must exceed UPLOAD_URL_TTL (%s)", s.OrphanThreshold, s.UploadURLTTL)
	}
	if s.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	return nil
}

// UsesRedis reports whether intents and the URL cache go through Redis.
func (s *Settings) UsesRedis() bool {
	return s.RedisAddr != ""
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
