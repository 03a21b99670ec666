// Package cache is the local persistence adapter: a small key-value contract
// with interchangeable backends, and the versioned snapshot record the store
// mirrors its state into.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/advcompro/garage-dashboard/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("cache key not found")

// KV is a string-keyed byte store. Values are opaque to the backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the backend selected by cfg.Mode
func New(ctx context.Context, cfg *config.CacheConfig, logger *zap.Logger) (KV, error) {
	switch cfg.Mode {
	case "memory":
		return NewMemory(), nil
	case "local":
		return NewLocal(cfg.LocalPath)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, cfg.AutoMigrate, logger)
	case "postgres":
		return OpenPostgres(&cfg.Postgres, cfg.AutoMigrate, logger)
	case "azure":
		if cfg.AzureConnectionString == "" {
			return nil, fmt.Errorf("azure connection string required for azure cache")
		}
		return NewAzureBlob(ctx, cfg.AzureConnectionString, cfg.AzureContainer, logger)
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported cache mode: %s", cfg.Mode)
	}
}
