package presentation

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"time"
	"unicode/utf8"

	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/filetype"
)

type FileView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	Size       string    `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
	Date       string    `json:"date"`
	Type       string    `json:"type"`
	Icon       string    `json:"icon"`
	Shared     bool      `json:"shared"`
	HasContent bool      `json:"has_content"`
}

type FolderView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	FullPath  string    `json:"full_path"`
	CreatedAt time.Time `json:"created_at"`
	Date      string    `json:"date"`
	Icon      string    `json:"icon"`
}

// Listing is everything a renderer needs to draw one folder
type Listing struct {
	Path       string       `json:"path"`
	Sort       SortKey      `json:"sort"`
	Breadcrumb []Crumb      `json:"breadcrumb"`
	Folders    []FolderView `json:"folders"`
	Files      []FileView   `json:"files"`
	Empty      bool         `json:"empty"`
}

// PreviewKind tells the renderer how to show a file
type PreviewKind string

const (
	PreviewImage PreviewKind = "image" // inline image from DataURL
	PreviewText  PreviewKind = "text"  // preformatted Text
	PreviewCard  PreviewKind = "card"  // icon with size, type and date
)

type Preview struct {
	File        FileView    `json:"file"`
	Kind        PreviewKind `json:"kind"`
	DataURL     string      `json:"data_url,omitempty"`
	Text        string      `json:"text,omitempty"`
	ShareLink   string      `json:"share_link,omitempty"`
	AccessCount int         `json:"access_count,omitempty"`
}

type SharedItem struct {
	FileID      string    `json:"file_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Icon        string    `json:"icon"`
	Link        string    `json:"link"`
	SharedAt    time.Time `json:"shared_at"`
	SharedOn    string    `json:"shared_on"`
	AccessCount int       `json:"access_count"`
	Summary     string    `json:"summary"`
}

// Projector turns model state into view-models. It holds no mutable state.
type Projector struct {
	types *filetype.Registry
}

func NewProjector(types *filetype.Registry) *Projector {
	return &Projector{types: types}
}

// Classify maps a file name or MIME type to its category token
func (p *Projector) Classify(nameOrMIME string) string {
	return string(p.types.Classify(nameOrMIME))
}

// IconFor returns the glyph for a category token
func (p *Projector) IconFor(category string) string {
	return p.types.IconFor(filetype.Category(category))
}

func (p *Projector) FileView(f *models.File, shared bool) FileView {
	return FileView{
		ID:         f.ID,
		Name:       f.Name,
		Path:       f.Path,
		SizeBytes:  f.SizeBytes,
		Size:       FormatSize(f.SizeBytes),
		CreatedAt:  f.CreatedAt,
		Date:       FormatDate(f.CreatedAt),
		Type:       f.MediaType,
		Icon:       p.IconFor(f.MediaType),
		Shared:     shared,
		HasContent: f.HasPayload(),
	}
}

func (p *Projector) FolderView(f *models.Folder) FolderView {
	return FolderView{
		ID:        f.ID,
		Name:      f.Name,
		Path:      f.Path,
		FullPath:  f.FullPath(),
		CreatedAt: f.CreatedAt,
		Date:      FormatDate(f.CreatedAt),
		Icon:      p.types.FolderIcon(),
	}
}

// BuildListing sorts and projects one folder's contents. isShared may be nil.
func (p *Projector) BuildListing(path string, files []*models.File, folders []*models.Folder, key SortKey, isShared func(fileID string) bool) Listing {
	listing := Listing{
		Path:       path,
		Sort:       key,
		Breadcrumb: BreadcrumbFor(path),
		Folders:    make([]FolderView, 0, len(folders)),
		Files:      make([]FileView, 0, len(files)),
	}

	for _, f := range SortFolders(folders, key) {
		listing.Folders = append(listing.Folders, p.FolderView(f))
	}
	for _, f := range SortFiles(files, key) {
		shared := isShared != nil && isShared(f.ID)
		listing.Files = append(listing.Files, p.FileView(f, shared))
	}
	listing.Empty = len(listing.Folders) == 0 && len(listing.Files) == 0
	return listing
}

// BuildPreview picks an inline image or text rendering when the payload
// allows it, otherwise an info card. share may be nil.
func (p *Projector) BuildPreview(f *models.File, share *models.ShareRecord) Preview {
	preview := Preview{
		File: p.FileView(f, share != nil),
		Kind: PreviewCard,
	}
	if share != nil {
		preview.ShareLink = share.Link
		preview.AccessCount = share.AccessCount
	}

	if !f.HasPayload() {
		return preview
	}
	switch filetype.Category(f.MediaType) {
	case filetype.Image:
		preview.Kind = PreviewImage
		preview.DataURL = fmt.Sprintf("data:%s;base64,%s", ContentType(f), base64.StdEncoding.EncodeToString(f.Payload))
	case filetype.Text, filetype.Code:
		if utf8.Valid(f.Payload) {
			preview.Kind = PreviewText
			preview.Text = string(f.Payload)
		}
	}
	return preview
}

// BuildSharedItems projects share records, skipping records whose file no
// longer exists.
func (p *Projector) BuildSharedItems(shares []models.ShareRecord, lookup func(fileID string) (*models.File, bool)) []SharedItem {
	items := make([]SharedItem, 0, len(shares))
	for _, s := range shares {
		f, ok := lookup(s.FileID)
		if !ok {
			continue
		}
		items = append(items, SharedItem{
			FileID:      s.FileID,
			Name:        f.Name,
			Type:        f.MediaType,
			Icon:        p.IconFor(f.MediaType),
			Link:        s.Link,
			SharedAt:    s.CreatedAt,
			SharedOn:    FormatDate(s.CreatedAt),
			AccessCount: s.AccessCount,
			Summary:     fmt.Sprintf("Shared on %s • %d access(es)", FormatDate(s.CreatedAt), s.AccessCount),
		})
	}
	return items
}

// ContentType guesses a MIME type for a file from its extension
func ContentType(f *models.File) string {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
