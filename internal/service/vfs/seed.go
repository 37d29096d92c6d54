package vfs

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/filetype"
)

// demoSpread is how far back demo files are dated
const demoSpread = 7 * 24 * time.Hour

var demoFiles = []struct {
	name      string
	size      int64
	mediaType filetype.Category
}{
	{"presentation.pdf", 2500000, filetype.PDF},
	{"photo.jpg", 1200000, filetype.Image},
	{"document.docx", 450000, filetype.Document},
	{"video.mp4", 15000000, filetype.Video},
	{"music.mp3", 3200000, filetype.Audio},
	{"archive.zip", 8500000, filetype.Archive},
}

// errNotLoaded guards seeding over a snapshot that could not be read
var errNotLoaded = errors.New("filesystem state was not loaded from the store")

// SeedDemoData populates an empty filesystem with metadata-only demo files
// at the root, dated at random points within the last week. It does
// nothing if any entry exists and reports whether it seeded. It fails
// without writing unless Load has succeeded.
func (s *FilesystemService) SeedDemoData(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, errNotLoaded
	}
	if len(s.entries) > 0 {
		return false, nil
	}

	now := s.timestamp()
	for _, demo := range demoFiles {
		age := time.Duration(rand.Int64N(int64(demoSpread)))
		s.entries = append(s.entries, &models.File{
			EntryMeta: models.EntryMeta{
				ID:        s.ids.NewID(),
				Name:      demo.name,
				CreatedAt: now.Add(-age),
			},
			SizeBytes: demo.size,
			MediaType: string(demo.mediaType),
		})
	}
	err := s.persistLocked(ctx)

	s.logger.Info("demo data seeded", "files", len(demoFiles))
	return true, err
}
