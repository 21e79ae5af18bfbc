package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/cache"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	"github.com/fhuszti/medias-lifecycle-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	strg, err := NewStorage(ctx, &config.Settings{StorageDriver: config.StorageDriverMinio, MinioEndpoint: "localhost:9000"})
	require.NoError(t, err)
	assert.IsType(t, &storage.MinioStorage{}, strg)

	strg, err = NewStorage(ctx, &config.Settings{
		StorageDriver: config.StorageDriverS3,
		S3Region:      "eu-west-3",
		S3AccessKey:   "ak",
		S3SecretKey:   "sk",
		S3Endpoint:    "http://localhost:9000",
		S3PathStyle:   true,
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Storage{}, strg)

	_, err = NewStorage(ctx, &config.Settings{StorageDriver: "gcs"})
	assert.Error(t, err)
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	ca, closer := NewCache(context.Background(), &config.Settings{URLCacheSize: 10, DownloadURLTTL: time.Hour})
	assert.IsType(t, &cache.MemoryCache{}, ca)
	assert.Nil(t, closer)

	ca, closer = NewCache(context.Background(), &config.Settings{RedisAddr: "localhost:6379"})
	assert.IsType(t, &cache.Cache{}, ca)
	require.NotNil(t, closer)
	assert.NoError(t, closer())
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(&config.Settings{RedisAddr: "redis:6379", RedisPassword: "pw", RedisDB: 2})
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
}

func TestApp_CloseRunsClosersInReverse(t *testing.T) {
	var order []int
	a := &App{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("ignored") },
	}}

	a.Close(context.Background())
	a.Close(context.Background())

	assert.Equal(t, []int{2, 1}, order)
}

func TestApp_Processors(t *testing.T) {
	a := &App{Cfg: &config.Settings{OrphanThreshold: time.Hour}}
	s := a.Processors()
	assert.NotNil(t, s.Fixer)
	assert.NotNil(t, s.Deleter)
	assert.NotNil(t, s.Reclaimer)
}
