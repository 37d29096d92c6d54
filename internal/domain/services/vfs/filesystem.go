package vfs

import (
	"context"
	"io"

	"cloudshare/internal/domain/models/vfs"
)

// FilesystemService owns the file+folder collection
type FilesystemService interface {
	// ListEntries returns the files and folders whose path equals path, in insertion order
	ListEntries(path string) ([]*vfs.File, []*vfs.Folder)

	// GetEntry looks up a file or folder by id
	GetEntry(id string) (vfs.Entry, error)

	// GetFile looks up a file by id; folders are reported as not found
	GetFile(id string) (*vfs.File, error)

	// FolderExists reports whether path is root or names an existing folder
	FolderExists(path string) bool

	CreateFile(ctx context.Context, req *CreateFileRequest) (*vfs.File, error)
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*vfs.Folder, error)

	// Rename changes an entry's name; folders carry their descendants along
	Rename(ctx context.Context, id, newName string) (vfs.Entry, error)

	// Move relocates an entry under newPath; folders carry their descendants along
	Move(ctx context.Context, id, newPath string) (vfs.Entry, error)

	// Delete removes an entry (and a folder's descendants); unknown ids are a no-op
	Delete(ctx context.Context, id string) error

	// Flush retries persisting after an earlier storage write failure
	Flush(ctx context.Context) error
}

// ShareRegistry issues and resolves share links
type ShareRegistry interface {
	// ShareFile returns the file's share record, creating it on first call.
	// created is false when an existing record was returned unchanged.
	ShareFile(ctx context.Context, fileID string) (record vfs.ShareRecord, created bool, err error)

	// ResolveShare counts one visit through the share link
	ResolveShare(ctx context.Context, fileID string) (vfs.ShareRecord, error)

	// Unshare revokes a file's share; it is idempotent
	Unshare(ctx context.Context, fileID string) error

	// GetShare returns the share record for a file without counting a visit
	GetShare(fileID string) (vfs.ShareRecord, bool)

	// ListShares returns records in creation order
	ListShares() []vfs.ShareRecord
}

// Ingester turns a batch of uploads into files
type Ingester interface {
	Ingest(ctx context.Context, path string, uploads []Upload) []IngestResult
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MediaType string `json:"media_type"`
	Payload   []byte `json:"payload,omitempty"`
	Path      string `json:"path"`
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name string `json:"name"`
	Path string `json:"path"` // parent path, "" = root
}

// Upload is one file of an ingestion batch. Open is only called for files
// small enough to be stored inline.
type Upload struct {
	Name        string
	SizeBytes   int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// IngestResult reports the outcome for one upload, in input order
type IngestResult struct {
	Name string
	File *vfs.File
	Err  error
}
