package vfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/domain/repositories"
	vfsSvc "cloudshare/internal/domain/services/vfs"
)

var _ vfsSvc.FilesystemService = (*FilesystemService)(nil)

// ShareCleaner drops the share of a deleted file
type ShareCleaner interface {
	UnshareOnDelete(ctx context.Context, fileID string) error
}

// FilesystemService owns the entry collection. All mutations run under mu
// and write the full collection back through the repository.
//
// Mutations build the next collection on clones and swap it in only once
// complete, so a rejected request leaves the current state untouched. If
// the durable write fails the new state is kept, marked dirty, and written
// again by the next mutation or Flush.
type FilesystemService struct {
	mu      sync.Mutex
	repo    repositories.EntryRepository
	ids     IDGenerator
	cleaner ShareCleaner
	entries []models.Entry
	dirty   bool
	loaded  bool
	now     func() time.Time
	logger  *slog.Logger
}

// NewFilesystemService creates an empty filesystem; call Load to restore state
func NewFilesystemService(repo repositories.EntryRepository, ids IDGenerator, logger *slog.Logger) *FilesystemService {
	return &FilesystemService{
		repo:    repo,
		ids:     ids,
		entries: []models.Entry{},
		now:     time.Now,
		logger:  logger,
	}
}

// AttachShareCleaner wires the share registry in. Delete calls it after the
// filesystem lock is released.
func (s *FilesystemService) AttachShareCleaner(cleaner ShareCleaner) {
	s.mu.Lock()
	s.cleaner = cleaner
	s.mu.Unlock()
}

// Load replaces the in-memory collection with the persisted one. When the
// store cannot be read the current state is kept and the error returned;
// SeedDemoData refuses to run until a Load succeeds.
func (s *FilesystemService) Load(ctx context.Context) (int, error) {
	entries, err := s.repo.LoadEntries(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.dirty = false
	s.loaded = true

	s.logger.Info("filesystem loaded", "entries", len(entries))
	return len(entries), nil
}

// Count returns the number of entries
func (s *FilesystemService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FilesystemService) ListEntries(path string) ([]*models.File, []*models.Folder) {
	path = models.NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	files := []*models.File{}
	folders := []*models.Folder{}
	for _, e := range s.entries {
		if e.Meta().Path != path {
			continue
		}
		switch v := e.Clone().(type) {
		case *models.File:
			files = append(files, v)
		case *models.Folder:
			folders = append(folders, v)
		}
	}
	return files, folders
}

func (s *FilesystemService) GetEntry(id string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.NewNotFound("entry", id)
	}
	return s.entries[i].Clone(), nil
}

func (s *FilesystemService) GetFile(id string) (*models.File, error) {
	entry, err := s.GetEntry(id)
	if err != nil {
		return nil, err
	}
	file, ok := entry.(*models.File)
	if !ok {
		return nil, domain.NewNotFound("file", id)
	}
	return file, nil
}

func (s *FilesystemService) FolderExists(path string) bool {
	path = models.NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folderExistsLocked(path)
}

func (s *FilesystemService) CreateFile(ctx context.Context, req *vfsSvc.CreateFileRequest) (*models.File, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Path = models.NormalizePath(req.Path)
	if err := validateCreateFile(req); err != nil {
		return nil, err
	}
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "default"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.folderExistsLocked(req.Path) {
		return nil, domain.NewNotFound("folder", req.Path)
	}

	file := &models.File{
		EntryMeta: models.EntryMeta{
			ID:        s.ids.NewID(),
			Name:      req.Name,
			Path:      req.Path,
			CreatedAt: s.timestamp(),
		},
		SizeBytes: req.SizeBytes,
		MediaType: mediaType,
		Payload:   req.Payload,
	}
	s.entries = append(s.entries, file)
	err := s.persistLocked(ctx)

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"path", file.Path,
		"size_bytes", file.SizeBytes,
		"media_type", file.MediaType,
		"inline", file.HasPayload(),
	)
	return file.Clone().(*models.File), err
}

func (s *FilesystemService) CreateFolder(ctx context.Context, req *vfsSvc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Path = models.NormalizePath(req.Path)
	if err := validateCreateFolder(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.folderExistsLocked(req.Path) {
		return nil, domain.NewNotFound("folder", req.Path)
	}
	if err := s.checkFolderNameLocked(req.Path, req.Name, ""); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		EntryMeta: models.EntryMeta{
			ID:        s.ids.NewID(),
			Name:      req.Name,
			Path:      req.Path,
			CreatedAt: s.timestamp(),
		},
	}
	s.entries = append(s.entries, folder)
	err := s.persistLocked(ctx)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"path", folder.Path,
	)
	return folder.Clone().(*models.Folder), err
}

func (s *FilesystemService) Rename(ctx context.Context, id, newName string) (models.Entry, error) {
	newName = strings.TrimSpace(newName)
	if err := validateName(newName); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.NewNotFound("entry", id)
	}
	current := s.entries[i]
	if current.Meta().Name == newName {
		return current.Clone(), nil
	}

	next := cloneEntries(s.entries)
	target := next[i]
	moved := 0

	switch v := target.(type) {
	case *models.Folder:
		if err := s.checkFolderNameLocked(v.Path, newName, v.ID); err != nil {
			return nil, err
		}
		oldFull := v.FullPath()
		v.Name = newName
		moved = reparentDescendants(next, oldFull, v.FullPath())
	case *models.File:
		v.Name = newName
	}

	s.entries = next
	err := s.persistLocked(ctx)

	s.logger.Info("entry renamed",
		"id", id,
		"kind", target.Kind(),
		"from", current.Meta().Name,
		"to", newName,
		"descendants_updated", moved,
	)
	return target.Clone(), err
}

func (s *FilesystemService) Move(ctx context.Context, id, newPath string) (models.Entry, error) {
	newPath = models.NormalizePath(newPath)
	if err := validatePath(newPath); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.NewNotFound("entry", id)
	}
	if !s.folderExistsLocked(newPath) {
		return nil, domain.NewNotFound("folder", newPath)
	}
	current := s.entries[i]
	if current.Meta().Path == newPath {
		return current.Clone(), nil
	}

	next := cloneEntries(s.entries)
	target := next[i]
	moved := 0

	switch v := target.(type) {
	case *models.Folder:
		oldFull := v.FullPath()
		if models.IsWithin(newPath, oldFull) {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("cannot move folder %q into itself or one of its subfolders", oldFull),
			}
		}
		if err := s.checkFolderNameLocked(newPath, v.Name, v.ID); err != nil {
			return nil, err
		}
		v.Path = newPath
		moved = reparentDescendants(next, oldFull, v.FullPath())
	case *models.File:
		v.Path = newPath
	}

	s.entries = next
	err := s.persistLocked(ctx)

	s.logger.Info("entry moved",
		"id", id,
		"kind", target.Kind(),
		"from", current.Meta().Path,
		"to", newPath,
		"descendants_updated", moved,
	)
	return target.Clone(), err
}

func (s *FilesystemService) Delete(ctx context.Context, id string) error {
	fileIDs, cleaner, err := s.removeEntry(ctx, id)
	if cleaner == nil || len(fileIDs) == 0 {
		return err
	}

	errs := []error{err}
	for _, fileID := range fileIDs {
		if cerr := cleaner.UnshareOnDelete(ctx, fileID); cerr != nil {
			errs = append(errs, cerr)
		}
	}
	return errors.Join(errs...)
}

// removeEntry drops the entry and, for folders, every descendant. It
// returns the ids of removed files so their shares can be cleaned up
// outside the lock.
func (s *FilesystemService) removeEntry(ctx context.Context, id string) ([]string, ShareCleaner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, s.cleaner, nil
	}
	target := s.entries[i]

	removed := func(e models.Entry) bool { return e.Meta().ID == id }
	if folder, ok := target.(*models.Folder); ok {
		full := folder.FullPath()
		removed = func(e models.Entry) bool {
			return e.Meta().ID == id || models.IsWithin(e.Meta().Path, full)
		}
	}

	next := make([]models.Entry, 0, len(s.entries))
	var fileIDs []string
	for _, e := range s.entries {
		if !removed(e) {
			next = append(next, e)
			continue
		}
		if e.Kind() == models.KindFile {
			fileIDs = append(fileIDs, e.Meta().ID)
		}
	}

	s.entries = next
	err := s.persistLocked(ctx)

	s.logger.Info("entry deleted",
		"id", id,
		"kind", target.Kind(),
		"name", target.Meta().Name,
		"files_removed", len(fileIDs),
	)
	return fileIDs, s.cleaner, err
}

func (s *FilesystemService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	return s.persistLocked(ctx)
}

// Dirty reports whether the last write failed and state is not yet durable
func (s *FilesystemService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *FilesystemService) persistLocked(ctx context.Context) error {
	if err := s.repo.SaveEntries(ctx, s.entries); err != nil {
		s.dirty = true
		s.logger.Warn("entries not persisted, will retry on next write", "error", err)
		return err
	}
	s.dirty = false
	return nil
}

func (s *FilesystemService) indexLocked(id string) int {
	for i, e := range s.entries {
		if e.Meta().ID == id {
			return i
		}
	}
	return -1
}

func (s *FilesystemService) folderExistsLocked(path string) bool {
	if path == "" {
		return true
	}
	for _, e := range s.entries {
		if f, ok := e.(*models.Folder); ok && f.FullPath() == path {
			return true
		}
	}
	return false
}

// checkFolderNameLocked rejects a folder name already used by another
// folder at the same path. exceptID skips the folder being renamed/moved.
func (s *FilesystemService) checkFolderNameLocked(path, name, exceptID string) error {
	for _, e := range s.entries {
		f, ok := e.(*models.Folder)
		if !ok || f.ID == exceptID {
			continue
		}
		if f.Path == path && f.Name == name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   f.ID,
			}
		}
	}
	return nil
}

func (s *FilesystemService) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

func cloneEntries(entries []models.Entry) []models.Entry {
	next := make([]models.Entry, len(entries))
	for i, e := range entries {
		next[i] = e.Clone()
	}
	return next
}

// reparentDescendants rewrites the path of every entry below oldFull.
func reparentDescendants(entries []models.Entry, oldFull, newFull string) int {
	n := 0
	for _, e := range entries {
		meta := e.Meta()
		if models.IsWithin(meta.Path, oldFull) {
			meta.Path = models.Reparent(meta.Path, oldFull, newFull)
			n++
		}
	}
	return n
}
