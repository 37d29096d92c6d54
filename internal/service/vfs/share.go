package vfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/domain/repositories"
	vfsSvc "cloudshare/internal/domain/services/vfs"
)

var (
	_ vfsSvc.ShareRegistry = (*ShareRegistry)(nil)
	_ ShareCleaner         = (*ShareRegistry)(nil)
)

// FileLookup resolves file ids against the filesystem
type FileLookup interface {
	GetFile(id string) (*models.File, error)
}

// ShareRegistry keeps at most one ShareRecord per file id.
//
// Lock order: the registry may call into FileLookup while holding mu; the
// filesystem never calls the registry while holding its own lock.
type ShareRegistry struct {
	mu      sync.Mutex
	repo    repositories.ShareRepository
	files   FileLookup
	baseURL *url.URL
	shares  []models.ShareRecord
	dirty   bool
	now     func() time.Time
	logger  *slog.Logger
}

// NewShareRegistry creates an empty registry; call Load to restore state.
// Share links are baseURL with a "share" query parameter.
func NewShareRegistry(repo repositories.ShareRepository, files FileLookup, baseURL string, logger *slog.Logger) (*ShareRegistry, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse share base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("share base url %q must be absolute", baseURL)
	}

	return &ShareRegistry{
		repo:    repo,
		files:   files,
		baseURL: u,
		shares:  []models.ShareRecord{},
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Load replaces the in-memory records with the persisted ones. A store
// read failure leaves the current records in place.
func (r *ShareRegistry) Load(ctx context.Context) (int, error) {
	shares, err := r.repo.LoadShares(ctx)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares = shares
	r.dirty = false

	r.logger.Info("shares loaded", "shares", len(shares))
	return len(shares), nil
}

// LinkFor derives the stable share link of a file
func (r *ShareRegistry) LinkFor(fileID string) string {
	u := *r.baseURL
	q := u.Query()
	q.Set("share", fileID)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}

func (r *ShareRegistry) ShareFile(ctx context.Context, fileID string) (models.ShareRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.files.GetFile(fileID); err != nil {
		return models.ShareRecord{}, false, err
	}
	if i := r.indexLocked(fileID); i >= 0 {
		return r.shares[i], false, nil
	}

	record := models.ShareRecord{
		FileID:      fileID,
		Link:        r.LinkFor(fileID),
		CreatedAt:   r.now().UTC().Round(0),
		AccessCount: 0,
	}
	r.shares = append(r.shares, record)
	err := r.persistLocked(ctx)

	r.logger.Info("file shared", "file_id", fileID, "link", record.Link)
	return record, true, err
}

// ResolveShare increments the access count by exactly one per call. A
// record whose file no longer exists is dropped and reported as not found.
func (r *ShareRegistry) ResolveShare(ctx context.Context, fileID string) (models.ShareRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(fileID)
	if i < 0 {
		return models.ShareRecord{}, domain.NewNotFound("share", fileID)
	}

	if _, err := r.files.GetFile(fileID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return models.ShareRecord{}, err
		}
		r.shares = slices.Delete(r.shares, i, i+1)
		if perr := r.persistLocked(ctx); perr != nil {
			r.logger.Warn("stale share dropped in memory only", "file_id", fileID, "error", perr)
		}
		r.logger.Info("stale share dropped", "file_id", fileID)
		return models.ShareRecord{}, domain.NewNotFound("share", fileID)
	}

	r.shares[i].AccessCount++
	record := r.shares[i]
	err := r.persistLocked(ctx)

	r.logger.Debug("share resolved", "file_id", fileID, "access_count", record.AccessCount)
	return record, err
}

// UnshareOnDelete removes the record of a deleted file, if any
func (r *ShareRegistry) UnshareOnDelete(ctx context.Context, fileID string) error {
	return r.remove(ctx, fileID, "file deleted")
}

// Unshare revokes a share on request. Revoking an unshared file is a no-op.
func (r *ShareRegistry) Unshare(ctx context.Context, fileID string) error {
	return r.remove(ctx, fileID, "revoked")
}

func (r *ShareRegistry) remove(ctx context.Context, fileID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(fileID)
	if i < 0 {
		return nil
	}
	r.shares = slices.Delete(r.shares, i, i+1)
	err := r.persistLocked(ctx)

	r.logger.Info("share removed", "file_id", fileID, "reason", reason)
	return err
}

func (r *ShareRegistry) GetShare(fileID string) (models.ShareRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexLocked(fileID); i >= 0 {
		return r.shares[i], true
	}
	return models.ShareRecord{}, false
}

func (r *ShareRegistry) ListShares() []models.ShareRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.shares)
}

// Flush retries persisting after an earlier storage write failure
func (r *ShareRegistry) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return nil
	}
	return r.persistLocked(ctx)
}

func (r *ShareRegistry) persistLocked(ctx context.Context) error {
	if err := r.repo.SaveShares(ctx, r.shares); err != nil {
		r.dirty = true
		r.logger.Warn("shares not persisted, will retry on next write", "error", err)
		return err
	}
	r.dirty = false
	return nil
}

func (r *ShareRegistry) indexLocked(fileID string) int {
	return slices.IndexFunc(r.shares, func(s models.ShareRecord) bool {
		return s.FileID == fileID
	})
}
