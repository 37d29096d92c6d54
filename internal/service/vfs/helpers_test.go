package vfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cloudshare/internal/repository/kv"
	"cloudshare/internal/repository/snapshot"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) NewID() string {
	return fmt.Sprintf("id-%03d", g.n.Add(1))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store  *kv.MemoryStore
	ids    *sequentialIDs
	repo   *snapshot.Repository
	fs     *FilesystemService
	shares *ShareRegistry
}

// newFixture wires a filesystem and share registry over a memory store.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, kv.NewMemoryStore(0), &sequentialIDs{})
}

func newFixtureWithStore(t *testing.T, store *kv.MemoryStore, ids *sequentialIDs) *fixture {
	t.Helper()
	logger := discardLogger()
	repo := snapshot.NewRepository(store, snapshot.NewKeys(""), logger)

	fs := NewFilesystemService(repo, ids, logger)
	fs.now = func() time.Time { return fixedNow }

	shares, err := NewShareRegistry(repo, fs, "http://localhost:8080/", logger)
	require.NoError(t, err)
	shares.now = func() time.Time { return fixedNow.Add(time.Hour) }
	fs.AttachShareCleaner(shares)

	ctx := context.Background()
	_, err = fs.Load(ctx)
	require.NoError(t, err)
	_, err = shares.Load(ctx)
	require.NoError(t, err)

	return &fixture{store: store, ids: ids, repo: repo, fs: fs, shares: shares}
}

// reload builds a fresh fixture over the same store, simulating a restart.
func (f *fixture) reload(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, f.store, f.ids)
}
