package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"cloudshare/internal/domain"
	"cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/domain/repositories"
)

const (
	entriesKey = "files_and_folders"
	sharesKey  = "shares"
)

// Keys holds the (optionally prefixed) storage keys of the two snapshots.
type Keys struct {
	Entries string
	Shares  string
}

// NewKeys creates snapshot keys with the given prefix
func NewKeys(prefix string) Keys {
	return Keys{
		Entries: prefix + entriesKey,
		Shares:  prefix + sharesKey,
	}
}

// Repository stores entries and shares as whole-collection JSON snapshots
// in a KVStore. It implements both EntryRepository and ShareRepository.
type Repository struct {
	store  repositories.KVStore
	keys   Keys
	logger *slog.Logger
}

// NewRepository creates a snapshot repository over the given store
func NewRepository(store repositories.KVStore, keys Keys, logger *slog.Logger) *Repository {
	return &Repository{
		store:  store,
		keys:   keys,
		logger: logger,
	}
}

func (r *Repository) LoadEntries(ctx context.Context) ([]vfs.Entry, error) {
	data, ok, err := r.read(ctx, r.keys.Entries)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []vfs.Entry{}, nil
	}
	entries, err := DecodeEntries(data)
	if err != nil {
		r.logger.Warn("discarding unreadable snapshot", "key", r.keys.Entries, "error", err)
		return []vfs.Entry{}, nil
	}
	r.logger.Debug("entries loaded", "key", r.keys.Entries, "count", len(entries))
	return entries, nil
}

func (r *Repository) SaveEntries(ctx context.Context, entries []vfs.Entry) error {
	data, err := EncodeEntries(entries)
	if err != nil {
		return &domain.StorageWriteError{Key: r.keys.Entries, Err: err}
	}
	return r.write(ctx, r.keys.Entries, data)
}

func (r *Repository) LoadShares(ctx context.Context) ([]vfs.ShareRecord, error) {
	data, ok, err := r.read(ctx, r.keys.Shares)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []vfs.ShareRecord{}, nil
	}
	shares, err := DecodeShares(data)
	if err != nil {
		r.logger.Warn("discarding unreadable snapshot", "key", r.keys.Shares, "error", err)
		return []vfs.ShareRecord{}, nil
	}
	r.logger.Debug("shares loaded", "key", r.keys.Shares, "count", len(shares))
	return shares, nil
}

func (r *Repository) SaveShares(ctx context.Context, shares []vfs.ShareRecord) error {
	data, err := EncodeShares(shares)
	if err != nil {
		return &domain.StorageWriteError{Key: r.keys.Shares, Err: err}
	}
	return r.write(ctx, r.keys.Shares, data)
}

// read fetches a raw snapshot. A backend failure is not a missing key: the
// stored data may still exist, so it is returned as an error.
func (r *Repository) read(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Error("snapshot read failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	if !found || value == "" {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (r *Repository) write(ctx context.Context, key string, data []byte) error {
	if err := r.store.Put(ctx, key, string(data)); err != nil {
		r.logger.Error("snapshot write failed", "key", key, "bytes", len(data), "error", err)
		return &domain.StorageWriteError{Key: key, Err: err}
	}
	return nil
}
