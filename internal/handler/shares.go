package handler

import (
	"log/slog"
	"net/http"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/httputil"
	"cloudshare/internal/observability"
	"cloudshare/internal/service/presentation"
)

// ShareHandler handles share links
type ShareHandler struct {
	files     vfsSvc.FilesystemService
	shares    vfsSvc.ShareRegistry
	projector *presentation.Projector
	reporter
}

// NewShareHandler creates a new share handler
func NewShareHandler(files vfsSvc.FilesystemService, shares vfsSvc.ShareRegistry, projector *presentation.Projector, metrics *observability.Metrics, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		files:     files,
		shares:    shares,
		projector: projector,
		reporter:  reporter{logger: logger, metrics: metrics},
	}
}

// ShareFile creates (or returns) the share record of a file
// POST /api/entries/{id}/share
// Returns 201 for a new record, 200 for an existing one
func (h *ShareHandler) ShareFile(w http.ResponseWriter, r *http.Request) {
	record, created, err := h.shares.ShareFile(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.metrics.ShareCreated()
	}
	httputil.RespondJSON(w, status, record)
}

// Unshare revokes a file's share link
// DELETE /api/entries/{id}/share
func (h *ShareHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	if err := h.shares.Unshare(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListShares returns the shared files view
// GET /api/shares
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	items := h.projector.BuildSharedItems(h.shares.ListShares(), func(fileID string) (*models.File, bool) {
		f, err := h.files.GetFile(fileID)
		return f, err == nil
	})
	httputil.RespondJSON(w, http.StatusOK, items)
}

// ResolveShare counts one visit through a share link and returns the
// file's preview.
// GET /?share={fileId}
func (h *ShareHandler) ResolveShare(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("share")
	if fileID == "" {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"service": "cloudshare",
			"entries": "/api/entries",
			"shares":  "/api/shares",
		})
		return
	}

	record, err := h.shares.ResolveShare(r.Context(), fileID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.ShareVisited()

	file, err := h.files.GetFile(record.FileID)
	if err != nil {
		// deleted between the two lookups
		h.fail(w, r, domain.NewNotFound("share", fileID))
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.projector.BuildPreview(file, &record))
}
