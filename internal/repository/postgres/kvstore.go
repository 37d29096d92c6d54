package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// KVStore keeps snapshots as rows of a prefixed kv_store table.
type KVStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewKVStore creates the store and ensures its table exists
func NewKVStore(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) (*KVStore, error) {
	s := &KVStore{pool: pool, tables: tables, logger: logger}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *KVStore) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, s.tables.KVStore)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", s.tables.KVStore, err)
	}
	s.logger.Debug("kv table ready", "table", s.tables.KVStore)
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.tables.KVStore)

	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if IsPgNoRowsError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Put(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.tables.KVStore)

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		if IsPgDiskFullError(err) {
			return fmt.Errorf("upsert %s: disk full: %w", key, err)
		}
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying pool
func (s *KVStore) Close() error {
	s.pool.Close()
	return nil
}
