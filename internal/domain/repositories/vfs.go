package repositories

import (
	"context"

	"cloudshare/internal/domain/models/vfs"
)

// EntryRepository persists the whole file+folder collection as one snapshot.
type EntryRepository interface {
	// LoadEntries returns the stored collection, or an empty one when the
	// snapshot is missing or cannot be decoded. An error means the store
	// itself could not be read and the stored state is unknown.
	LoadEntries(ctx context.Context) ([]vfs.Entry, error)

	// SaveEntries overwrites the snapshot. A rejected write is reported as
	// *domain.StorageWriteError.
	SaveEntries(ctx context.Context, entries []vfs.Entry) error
}

// ShareRepository persists the share record collection as one snapshot.
type ShareRepository interface {
	LoadShares(ctx context.Context) ([]vfs.ShareRecord, error)
	SaveShares(ctx context.Context, shares []vfs.ShareRecord) error
}
