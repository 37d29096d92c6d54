package presentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/filetype"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{500, "500 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{450000, "439.5 KB"},
		{2500000, "2.4 MB"},
		{1073741824, "1.0 GB"},
		{5 * 1099511627776, "5120.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 9, 2024", FormatDate(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dec 25, 2023", FormatDate(time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)))
}

func TestBreadcrumbFor(t *testing.T) {
	assert.Equal(t, []Crumb{{Label: "Home", Path: ""}}, BreadcrumbFor(""))
	assert.Equal(t,
		[]Crumb{{Label: "Home", Path: ""}, {Label: "Docs", Path: "Docs"}},
		BreadcrumbFor("Docs"),
	)
	assert.Equal(t,
		[]Crumb{{Label: "Home", Path: ""}, {Label: "Docs", Path: "Docs"}, {Label: "2024", Path: "Docs/2024"}},
		BreadcrumbFor("Docs/2024"),
	)
}

func file(id, name string, size int64, mediaType string, day int) *models.File {
	return &models.File{
		EntryMeta: models.EntryMeta{
			ID:        id,
			Name:      name,
			CreatedAt: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		},
		SizeBytes: size,
		MediaType: mediaType,
	}
}

func ids(files []*models.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.ID
	}
	return out
}

func TestSortFiles(t *testing.T) {
	files := []*models.File{
		file("1", "banana.txt", 300, "document", 2),
		file("2", "Apple.png", 100, "image", 5),
		file("3", "cherry.mp3", 900, "audio", 1),
		file("4", "apple.zip", 100, "archive", 3),
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortNone, []string{"1", "2", "3", "4"}},
		{SortName, []string{"2", "4", "1", "3"}},
		{SortDate, []string{"2", "4", "1", "3"}},
		{SortSize, []string{"3", "1", "2", "4"}},
		{SortType, []string{"4", "3", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortFiles(files, tt.key)))
		})
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(files), "input is not reordered")
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortName, ParseSortKey("Name"))
	assert.Equal(t, SortSize, ParseSortKey(" size "))
	assert.Equal(t, SortNone, ParseSortKey("color"))
	assert.Equal(t, SortNone, ParseSortKey(""))
}

func TestSortFolders(t *testing.T) {
	folders := []*models.Folder{
		{EntryMeta: models.EntryMeta{ID: "1", Name: "zeta", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{EntryMeta: models.EntryMeta{ID: "2", Name: "Alpha", CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)}},
	}

	byName := SortFolders(folders, SortName)
	assert.Equal(t, "2", byName[0].ID)
	bySize := SortFolders(folders, SortSize)
	assert.Equal(t, "1", bySize[0].ID)
	byDate := SortFolders(folders, SortDate)
	assert.Equal(t, "2", byDate[0].ID)
}

func newTestProjector(t *testing.T) *Projector {
	t.Helper()
	reg, err := filetype.NewRegistry()
	require.NoError(t, err)
	return NewProjector(reg)
}

func TestBuildListing(t *testing.T) {
	p := newTestProjector(t)

	files := []*models.File{
		file("1", "small.txt", 10, "document", 1),
		file("2", "big.mp4", 15000000, "video", 2),
	}
	folders := []*models.Folder{{EntryMeta: models.EntryMeta{ID: "f", Name: "Sub", Path: "Docs"}}}

	listing := p.BuildListing("Docs", files, folders, SortSize, func(id string) bool { return id == "2" })

	assert.Equal(t, "Docs", listing.Path)
	assert.Len(t, listing.Breadcrumb, 2)
	require.Len(t, listing.Files, 2)
	assert.Equal(t, "big.mp4", listing.Files[0].Name)
	assert.Equal(t, "14.3 MB", listing.Files[0].Size)
	assert.Equal(t, "🎬", listing.Files[0].Icon)
	assert.True(t, listing.Files[0].Shared)
	assert.False(t, listing.Files[1].Shared)
	require.Len(t, listing.Folders, 1)
	assert.Equal(t, "Docs/Sub", listing.Folders[0].FullPath)
	assert.Equal(t, "📁", listing.Folders[0].Icon)
	assert.False(t, listing.Empty)

	empty := p.BuildListing("", nil, nil, SortNone, nil)
	assert.True(t, empty.Empty)
	assert.NotNil(t, empty.Files)
}

func TestBuildPreview(t *testing.T) {
	p := newTestProjector(t)

	img := file("1", "dot.png", 3, "image", 1)
	img.Payload = []byte{1, 2, 3}
	preview := p.BuildPreview(img, nil)
	assert.Equal(t, PreviewImage, preview.Kind)
	assert.Equal(t, "data:image/png;base64,AQID", preview.DataURL)

	txt := file("2", "notes.md", 5, "text", 1)
	txt.Payload = []byte("hello")
	share := &models.ShareRecord{FileID: "2", Link: "http://x/?share=2", AccessCount: 4}
	preview = p.BuildPreview(txt, share)
	assert.Equal(t, PreviewText, preview.Kind)
	assert.Equal(t, "hello", preview.Text)
	assert.Equal(t, "http://x/?share=2", preview.ShareLink)
	assert.Equal(t, 4, preview.AccessCount)
	assert.True(t, preview.File.Shared)

	meta := file("3", "video.mp4", 15000000, "video", 1)
	preview = p.BuildPreview(meta, nil)
	assert.Equal(t, PreviewCard, preview.Kind)
	assert.Empty(t, preview.DataURL)
}

func TestBuildSharedItems_SkipsMissingFiles(t *testing.T) {
	p := newTestProjector(t)

	present := file("1", "photo.jpg", 1200000, "image", 1)
	shares := []models.ShareRecord{
		{FileID: "1", Link: "l1", CreatedAt: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), AccessCount: 2},
		{FileID: "gone", Link: "l2"},
	}

	items := p.BuildSharedItems(shares, func(id string) (*models.File, bool) {
		if id == present.ID {
			return present, true
		}
		return nil, false
	})

	require.Len(t, items, 1)
	assert.Equal(t, "photo.jpg", items[0].Name)
	assert.Equal(t, "🖼️", items[0].Icon)
	assert.Equal(t, "Shared on Mar 9, 2024 • 2 access(es)", items[0].Summary)
}

func TestClassifyAndIcon(t *testing.T) {
	p := newTestProjector(t)
	assert.Equal(t, "pdf", p.Classify("paper.PDF"))
	assert.Equal(t, "default", p.Classify("mystery.bin"))
	assert.Equal(t, "📄", p.IconFor("default"))
	assert.Equal(t, "💻", p.IconFor("code"))
}
