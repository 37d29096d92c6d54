package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/httputil"
	"cloudshare/internal/observability"
	"cloudshare/internal/service/presentation"
)

// EntryHandler handles listing, preview, rename/move, delete and download
type EntryHandler struct {
	files     vfsSvc.FilesystemService
	shares    vfsSvc.ShareRegistry
	projector *presentation.Projector
	reporter
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(files vfsSvc.FilesystemService, shares vfsSvc.ShareRegistry, projector *presentation.Projector, metrics *observability.Metrics, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		files:     files,
		shares:    shares,
		projector: projector,
		reporter:  reporter{logger: logger, metrics: metrics},
	}
}

// HealthCheck handles GET /health
func (h *EntryHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEntries returns the listing view-model for one folder
// GET /api/entries?path=&sort=
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	path := models.NormalizePath(r.URL.Query().Get("path"))
	if !h.files.FolderExists(path) {
		h.fail(w, r, domain.NewNotFound("folder", path))
		return
	}

	files, folders := h.files.ListEntries(path)
	sortKey := presentation.ParseSortKey(r.URL.Query().Get("sort"))
	listing := h.projector.BuildListing(path, files, folders, sortKey, h.isShared)

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// GetEntry returns a file preview or a folder view
// GET /api/entries/{id}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.files.GetEntry(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch e := entry.(type) {
	case *models.File:
		var share *models.ShareRecord
		if rec, ok := h.shares.GetShare(e.ID); ok {
			share = &rec
		}
		httputil.RespondJSON(w, http.StatusOK, h.projector.BuildPreview(e, share))
	case *models.Folder:
		httputil.RespondJSON(w, http.StatusOK, h.projector.FolderView(e))
	}
}

// UpdateEntryRequest carries a rename and/or a move. A null or empty path
// moves the entry to the root.
type UpdateEntryRequest struct {
	Name httputil.OptionalString `json:"name"`
	Path httputil.OptionalString `json:"path"`
}

// UpdateEntry renames and/or moves an entry. The move is applied first.
// PATCH /api/entries/{id}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateEntryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Name.Present && !req.Path.Present {
		httputil.RespondError(w, http.StatusBadRequest, "name or path is required")
		return
	}
	if req.Name.Present && req.Name.Value == nil {
		httputil.RespondError(w, http.StatusBadRequest, "name cannot be null")
		return
	}

	var (
		entry models.Entry
		err   error
	)
	if req.Path.Present {
		if entry, err = h.files.Move(r.Context(), id, req.Path.OrEmpty()); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Name.Present {
		if entry, err = h.files.Rename(r.Context(), id, *req.Name.Value); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	h.respondEntry(w, entry)
}

// DeleteEntry deletes an entry and, for folders, everything below it
// DELETE /api/entries/{id}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadContent streams a file's inline payload
// GET /api/entries/{id}/content
func (h *EntryHandler) DownloadContent(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.GetFile(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !file.HasPayload() {
		h.fail(w, r, &domain.NotFoundError{Message: "content of " + strconv.Quote(file.Name) + " is not stored"})
		return
	}

	w.Header().Set("Content-Type", presentation.ContentType(file))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Payload)))
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	w.Write(file.Payload)
}

func (h *EntryHandler) respondEntry(w http.ResponseWriter, entry models.Entry) {
	switch e := entry.(type) {
	case *models.File:
		httputil.RespondJSON(w, http.StatusOK, h.projector.FileView(e, h.isShared(e.ID)))
	case *models.Folder:
		httputil.RespondJSON(w, http.StatusOK, h.projector.FolderView(e))
	default:
		handleError(w, errors.New("unknown entry type"))
	}
}

func (h *EntryHandler) isShared(fileID string) bool {
	_, ok := h.shares.GetShare(fileID)
	return ok
}
