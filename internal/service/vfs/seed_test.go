package vfs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/repository/kv"
	"cloudshare/internal/repository/snapshot"
)

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seeded, err := f.fs.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	files, folders := f.fs.ListEntries("")
	assert.Empty(t, folders)
	require.Len(t, files, len(demoFiles))

	for i, file := range files {
		assert.Equal(t, demoFiles[i].name, file.Name)
		assert.Equal(t, demoFiles[i].size, file.SizeBytes)
		assert.Equal(t, string(demoFiles[i].mediaType), file.MediaType)
		assert.False(t, file.HasPayload())
		assert.False(t, file.CreatedAt.After(fixedNow))
		assert.True(t, file.CreatedAt.After(fixedNow.Add(-demoSpread-1)))
	}

	reloaded := f.reload(t)
	assert.Equal(t, len(demoFiles), reloaded.fs.Count())
}

func TestSeedDemoData_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Mine"})
	require.NoError(t, err)

	seeded, err := f.fs.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, 1, f.fs.Count())
}

// flakyStore fails the next failReads Get calls, then reads normally
type flakyStore struct {
	*kv.MemoryStore
	failReads atomic.Int32
}

var errReadUnavailable = errors.New("store temporarily unavailable")

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failReads.Add(-1) >= 0 {
		return "", false, errReadUnavailable
	}
	return s.MemoryStore.Get(ctx, key)
}

func TestSeedDemoData_SkippedWhenStoreUnreadable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: name})
		require.NoError(t, err)
	}

	store := &flakyStore{MemoryStore: f.store}
	store.failReads.Store(1)
	repo := snapshot.NewRepository(store, snapshot.NewKeys(""), discardLogger())
	restarted := NewFilesystemService(repo, f.ids, discardLogger())

	n, err := restarted.Load(ctx)
	require.ErrorIs(t, err, errReadUnavailable)
	assert.Zero(t, n)

	seeded, err := restarted.SeedDemoData(ctx)
	require.ErrorIs(t, err, errNotLoaded)
	assert.False(t, seeded)

	persisted, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 3, "stored entries are not overwritten")

	n, err = restarted.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	seeded, err = restarted.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}
