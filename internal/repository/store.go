package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cloudshare/internal/config"
	"cloudshare/internal/domain/repositories"
	"cloudshare/internal/repository/kv"
	"cloudshare/internal/repository/postgres"
)

// OpenStore connects the KVStore backend selected by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.KVStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return kv.NewMemoryStore(0), nil

	case config.BackendFile:
		return kv.NewFileStore(cfg.StorePath)

	case config.BackendSQLite:
		path := cfg.StorePath
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "cloudshare.db")
		}
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
		return kv.NewSQLiteStore(ctx, path)

	case config.BackendPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewKVStore(ctx, pool, postgres.NewTableNames(cfg.TablePrefix), logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	case config.BackendS3:
		return kv.NewS3Store(kv.S3Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}
