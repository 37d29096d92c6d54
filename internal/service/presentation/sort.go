package presentation

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	models "cloudshare/internal/domain/models/vfs"
)

// SortKey selects a listing order
type SortKey string

const (
	SortNone SortKey = ""     // insertion order
	SortName SortKey = "name" // locale-aware, ascending
	SortDate SortKey = "date" // newest first
	SortSize SortKey = "size" // largest first
	SortType SortKey = "type" // category token, ascending
)

// ParseSortKey maps a query value to a SortKey; unknown values keep
// insertion order.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortDate, SortSize, SortType:
		return k
	default:
		return SortNone
	}
}

// newCollator returns a fresh collator; collators are not safe for
// concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// SortFiles returns a stably sorted copy of files
func SortFiles(files []*models.File, key SortKey) []*models.File {
	sorted := slices.Clone(files)

	switch key {
	case SortName:
		c := newCollator()
		slices.SortStableFunc(sorted, func(a, b *models.File) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortDate:
		slices.SortStableFunc(sorted, func(a, b *models.File) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortSize:
		slices.SortStableFunc(sorted, func(a, b *models.File) int {
			return cmp.Compare(b.SizeBytes, a.SizeBytes)
		})
	case SortType:
		slices.SortStableFunc(sorted, func(a, b *models.File) int {
			return strings.Compare(a.MediaType, b.MediaType)
		})
	}
	return sorted
}

// SortFolders returns a stably sorted copy of folders. Size and type do not
// apply to folders, which then keep insertion order.
func SortFolders(folders []*models.Folder, key SortKey) []*models.Folder {
	sorted := slices.Clone(folders)

	switch key {
	case SortName:
		c := newCollator()
		slices.SortStableFunc(sorted, func(a, b *models.Folder) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortDate:
		slices.SortStableFunc(sorted, func(a, b *models.Folder) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return sorted
}
