package vfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
)

func TestCreateAndList_DocsScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{
		Name:      "a.txt",
		SizeBytes: 500,
		MediaType: "document",
		Path:      "Docs",
	})
	require.NoError(t, err)

	rootFiles, rootFolders := f.fs.ListEntries("")
	assert.Empty(t, rootFiles)
	require.Len(t, rootFolders, 1)
	assert.Equal(t, folder.ID, rootFolders[0].ID)

	docFiles, docFolders := f.fs.ListEntries("Docs")
	assert.Empty(t, docFolders)
	require.Len(t, docFiles, 1)
	assert.Equal(t, file.ID, docFiles[0].ID)
	assert.Equal(t, fixedNow, docFiles[0].CreatedAt)
}

func TestCreate_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{
		Name:      "hello.txt",
		SizeBytes: 5,
		MediaType: "document",
		Payload:   []byte("hello"),
		Path:      "Docs",
	})
	require.NoError(t, err)

	reloaded := f.reload(t)

	gotFolder, err := reloaded.fs.GetEntry(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder, gotFolder)

	gotFile, err := reloaded.fs.GetFile(file.ID)
	require.NoError(t, err)
	assert.Equal(t, file, gotFile)

	files, _ := reloaded.fs.ListEntries("Docs")
	require.Len(t, files, 1, "entry listed exactly once after reload")
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		req  *vfsSvc.CreateFileRequest
	}{
		{name: "empty name", req: &vfsSvc.CreateFileRequest{Name: "   "}},
		{name: "slash in name", req: &vfsSvc.CreateFileRequest{Name: "a/b.txt"}},
		{name: "dot name", req: &vfsSvc.CreateFileRequest{Name: ".."}},
		{name: "negative size", req: &vfsSvc.CreateFileRequest{Name: "a.txt", SizeBytes: -1}},
		{name: "payload size mismatch", req: &vfsSvc.CreateFileRequest{Name: "a.txt", SizeBytes: 3, Payload: []byte("hello")}},
		{name: "empty path segment", req: &vfsSvc.CreateFileRequest{Name: "a.txt", Path: "Docs//x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.fs.CreateFile(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}

	_, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: ""})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Zero(t, f.fs.Count(), "rejected requests leave no trace")
	_, found, _ := f.store.Get(ctx, "files_and_folders")
	assert.False(t, found, "nothing persisted")
}

func TestCreate_MissingParentFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt", Path: "Nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Sub", Path: "Nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateFolder_DuplicateNameConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)

	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.ResourceID)

	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs", Path: "Docs"})
	assert.NoError(t, err, "same name under a different parent is fine")

	_, err = f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "dup.txt"})
	require.NoError(t, err)
	_, err = f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "dup.txt"})
	assert.NoError(t, err, "duplicate file names are tolerated")
}

func TestCreateFile_DefaultsMediaType(t *testing.T) {
	f := newFixture(t)
	file, err := f.fs.CreateFile(context.Background(), &vfsSvc.CreateFileRequest{Name: "blob"})
	require.NoError(t, err)
	assert.Equal(t, "default", file.MediaType)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt"})
	require.NoError(t, err)

	renamed, err := f.fs.Rename(ctx, file.ID, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", renamed.Meta().Name)
	assert.Equal(t, file.CreatedAt, renamed.Meta().CreatedAt)

	reloaded := f.reload(t)
	got, err := reloaded.fs.GetEntry(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", got.Meta().Name)

	_, err = f.fs.Rename(ctx, "missing", "x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.fs.Rename(ctx, file.ID, "")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRename_SameNameDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt"})
	require.NoError(t, err)

	// A full store would reject any write; the no-op must not attempt one.
	f.store.SetQuota(1)
	_, err = f.fs.Rename(ctx, file.ID, "a.txt")
	assert.NoError(t, err)
	assert.False(t, f.fs.Dirty())
}

func TestRenameFolder_CascadesToDescendants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	docs, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	sub, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "2024", Path: "Docs"})
	require.NoError(t, err)
	deep, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "q1.pdf", Path: "Docs/2024"})
	require.NoError(t, err)
	other, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docsx"})
	require.NoError(t, err)

	_, err = f.fs.Rename(ctx, docs.ID, "Papers")
	require.NoError(t, err)

	gotSub, _ := f.fs.GetEntry(sub.ID)
	assert.Equal(t, "Papers", gotSub.Meta().Path)
	gotDeep, _ := f.fs.GetEntry(deep.ID)
	assert.Equal(t, "Papers/2024", gotDeep.Meta().Path)
	gotOther, _ := f.fs.GetEntry(other.ID)
	assert.Equal(t, "", gotOther.Meta().Path, "sibling with shared prefix untouched")

	files, _ := f.fs.ListEntries("Papers/2024")
	assert.Len(t, files, 1)
}

func TestRenameFolder_ConflictLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "A"})
	require.NoError(t, err)
	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "B"})
	require.NoError(t, err)

	_, err = f.fs.Rename(ctx, a.ID, "B")
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, _ := f.fs.GetEntry(a.ID)
	assert.Equal(t, "A", got.Meta().Name)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt"})
	require.NoError(t, err)

	moved, err := f.fs.Move(ctx, file.ID, "/Docs/")
	require.NoError(t, err)
	assert.Equal(t, "Docs", moved.Meta().Path)

	rootFiles, _ := f.fs.ListEntries("")
	assert.Empty(t, rootFiles)
	docFiles, _ := f.fs.ListEntries("Docs")
	assert.Len(t, docFiles, 1)

	_, err = f.fs.Move(ctx, file.ID, "Missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.fs.Move(ctx, "missing", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	back, err := f.fs.Move(ctx, file.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "", back.Meta().Path)
}

func TestMoveFolder_CascadesAndRejectsCycles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	docs, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	sub, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Sub", Path: "Docs"})
	require.NoError(t, err)
	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt", Path: "Docs/Sub"})
	require.NoError(t, err)
	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Archive"})
	require.NoError(t, err)

	_, err = f.fs.Move(ctx, docs.ID, "Docs")
	assert.True(t, errors.Is(err, domain.ErrValidation), "into itself")
	_, err = f.fs.Move(ctx, docs.ID, "Docs/Sub")
	assert.True(t, errors.Is(err, domain.ErrValidation), "into a descendant")

	_, err = f.fs.Move(ctx, docs.ID, "Archive")
	require.NoError(t, err)

	gotSub, _ := f.fs.GetEntry(sub.ID)
	assert.Equal(t, "Archive/Docs", gotSub.Meta().Path)
	gotFile, _ := f.fs.GetEntry(file.ID)
	assert.Equal(t, "Archive/Docs/Sub", gotFile.Meta().Path)

	reloaded := f.reload(t)
	files, _ := reloaded.fs.ListEntries("Archive/Docs/Sub")
	assert.Len(t, files, 1)
}

func TestDelete_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	keep, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "keep.txt"})
	require.NoError(t, err)
	drop, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "drop.txt"})
	require.NoError(t, err)

	require.NoError(t, f.fs.Delete(ctx, drop.ID))
	afterOnce, _ := f.fs.ListEntries("")
	snapshotOnce, _, _ := f.store.Get(ctx, "files_and_folders")

	require.NoError(t, f.fs.Delete(ctx, drop.ID))
	afterTwice, _ := f.fs.ListEntries("")
	snapshotTwice, _, _ := f.store.Get(ctx, "files_and_folders")

	assert.Equal(t, afterOnce, afterTwice)
	assert.Equal(t, snapshotOnce, snapshotTwice)
	require.Len(t, afterTwice, 1)
	assert.Equal(t, keep.ID, afterTwice[0].ID)

	assert.NoError(t, f.fs.Delete(ctx, "never-existed"))
}

func TestDeleteFolder_RemovesDescendantsAndShares(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	docs, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)
	_, err = f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Sub", Path: "Docs"})
	require.NoError(t, err)
	inner, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt", Path: "Docs/Sub"})
	require.NoError(t, err)
	outside, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "b.txt"})
	require.NoError(t, err)

	_, _, err = f.shares.ShareFile(ctx, inner.ID)
	require.NoError(t, err)
	_, _, err = f.shares.ShareFile(ctx, outside.ID)
	require.NoError(t, err)

	require.NoError(t, f.fs.Delete(ctx, docs.ID))

	assert.Equal(t, 1, f.fs.Count())
	_, err = f.fs.GetEntry(inner.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	shares := f.shares.ListShares()
	require.Len(t, shares, 1)
	assert.Equal(t, outside.ID, shares[0].FileID)
}

func TestStorageWriteError_KeepsStateAndRetries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "first.txt"})
	require.NoError(t, err)

	f.store.SetQuota(10)
	second, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "second.txt"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageWrite))
	require.NotNil(t, second, "entry is returned even though it is not durable yet")
	assert.True(t, f.fs.Dirty())

	files, _ := f.fs.ListEntries("")
	assert.Len(t, files, 2, "in-memory model stays correct")

	f.store.SetQuota(0)
	require.NoError(t, f.fs.Flush(ctx))
	assert.False(t, f.fs.Dirty())

	reloaded := f.reload(t)
	files, _ = reloaded.fs.ListEntries("")
	assert.Len(t, files, 2)
	assert.NoError(t, reloaded.fs.Flush(ctx), "flush without pending writes is a no-op")
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.fs.CreateFile(ctx, &vfsSvc.CreateFileRequest{Name: "a.txt"})
	require.NoError(t, err)
	file.Name = "mutated"

	files, _ := f.fs.ListEntries("")
	files[0].Path = "elsewhere"

	got, err := f.fs.GetFile(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Name)
	assert.Equal(t, "", got.Path)
}

func TestGetFile_RejectsFolders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.fs.CreateFolder(ctx, &vfsSvc.CreateFolderRequest{Name: "Docs"})
	require.NoError(t, err)

	_, err = f.fs.GetFile(folder.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	entry, err := f.fs.GetEntry(folder.ID)
	require.NoError(t, err)
	_, isFolder := entry.(*models.Folder)
	assert.True(t, isFolder)
}

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := gen.NewID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
