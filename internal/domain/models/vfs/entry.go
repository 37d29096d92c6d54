package vfs

import (
	"time"
)

// EntryKind discriminates the two Entry variants.
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// Entry is a File or a Folder. Consumers switch on the concrete type.
type Entry interface {
	Meta() *EntryMeta
	Kind() EntryKind
	Clone() Entry
}

// EntryMeta holds the fields shared by files and folders.
type EntryMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"` // parent folder's full path, "" = root
	CreatedAt time.Time `json:"created_at"`
}

type File struct {
	EntryMeta
	SizeBytes int64  `json:"size_bytes"`
	MediaType string `json:"media_type"`
	Payload   []byte `json:"payload,omitempty"` // only set for files below the inline threshold
}

func (f *File) Meta() *EntryMeta { return &f.EntryMeta }
func (f *File) Kind() EntryKind  { return KindFile }

// Clone returns a copy of the file. Payload bytes are never mutated after
// creation so the backing array is shared.
func (f *File) Clone() Entry {
	c := *f
	return &c
}

// HasPayload reports whether inline content is available for download.
func (f *File) HasPayload() bool { return f.Payload != nil }

type Folder struct {
	EntryMeta
}

func (f *Folder) Meta() *EntryMeta { return &f.EntryMeta }
func (f *Folder) Kind() EntryKind  { return KindFolder }

func (f *Folder) Clone() Entry {
	c := *f
	return &c
}

// FullPath is the path children of this folder carry.
func (f *Folder) FullPath() string {
	return JoinPath(f.Path, f.Name)
}
