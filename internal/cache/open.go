package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"activityfeed/internal/config"
)

// OpenBackend creates the backend named by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.CacheConfig) (Backend, error) {
	switch cfg.Backend {
	case "file":
		return NewFileBackend(cfg.Path), nil
	case "memory":
		return NewMemoryBackend(), nil
	case "sqlite":
		path := cfg.DSN
		if path == "" {
			path = "linkedin_cache.db"
		}
		return OpenSQLite(path, cfg.Key)
	case "postgres":
		return OpenPostgres(cfg.DSN, cfg.Key)
	case "dynamodb":
		return OpenDynamoDB(cfg.Region, cfg.Endpoint, cfg.Table, cfg.Key)
	case "mongodb":
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.Key)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

// Open creates a Store over the configured backend.
func Open(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (*Store, error) {
	b, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(b, cfg.TTL, log), nil
}
