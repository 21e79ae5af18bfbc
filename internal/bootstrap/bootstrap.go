// Package bootstrap wires the infrastructure shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/cache"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	"github.com/fhuszti/medias-lifecycle-go/internal/db"
	workerHandler "github.com/fhuszti/medias-lifecycle-go/internal/handler/worker"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/repository/mariadb"
	"github.com/fhuszti/medias-lifecycle-go/internal/storage"
	mediaSvc "github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/hibiken/asynq"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Cfg     *config.Settings
	DB      *db.Database
	Storage port.Storage
	Cache   port.Cache
	Repo    port.MediaRepository

	closers []func() error
}

// New connects to the database, the object store and the cache, and makes
// sure the media bucket exists.
func New(ctx context.Context, cfg *config.Settings) (*App, error) {
	database, err := OpenDatabase(ctx, cfg, false)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	app := &App{Cfg: cfg, DB: database, closers: []func() error{database.Close}}

	strg, err := NewStorage(ctx, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := strg.InitBucket(ctx, cfg.MediaBucket); err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("init bucket %q: %w", cfg.MediaBucket, err)
	}
	app.Storage = strg

	ca, closeCache := NewCache(ctx, cfg)
	app.Cache = ca
	if closeCache != nil {
		app.closers = append(app.closers, closeCache)
	}

	app.Repo = mariadb.NewMediaRepository(database.DB)
	return app, nil
}

// OpenDatabase opens the MariaDB pool described by cfg.
func OpenDatabase(ctx context.Context, cfg *config.Settings, multiStatements bool) (*db.Database, error) {
	logger.Info(ctx, "initialising database...")
	return db.New(ctx, db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		MultiStatements: multiStatements,
	})
}

// NewStorage returns the object store driver selected by STORAGE_DRIVER.
func NewStorage(ctx context.Context, cfg *config.Settings) (port.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
	case config.StorageDriverMinio:
		return storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewCache returns the Redis URL cache when Redis is configured, and an
// in-process LRU otherwise. The returned closer may be nil.
func NewCache(ctx context.Context, cfg *config.Settings) (port.Cache, func() error) {
	if cfg.UsesRedis() {
		rc := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		logger.Info(ctx, "✅  Redis cache enabled")
		return rc, rc.Close
	}
	logger.Warn(ctx, "⚠️  Redis not configured, URLs are cached in memory")
	return cache.NewMemory(cfg.URLCacheSize, cfg.DownloadURLTTL), nil
}

// RedisOpt is the Asynq connection to the configured Redis.
func RedisOpt(cfg *config.Settings) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// Processors builds the asynchronous processors behind the task handlers.
func (a *App) Processors() workerHandler.Services {
	return workerHandler.Services{
		Fixer:     mediaSvc.NewMediaFixer(a.Repo, a.Storage),
		Deleter:   mediaSvc.NewMediaDeleter(a.Repo, a.Cache, a.Storage),
		Reclaimer: mediaSvc.NewOrphanReclaimer(a.Repo, a.Storage, a.Cfg.OrphanThreshold),
	}
}

// Close releases everything New opened, last opened first.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warnf(ctx, "close error: %v", err)
		}
	}
	a.closers = nil
}

// ShutdownTimeout bounds the graceful stop of every binary.
const ShutdownTimeout = 30 * time.Second
