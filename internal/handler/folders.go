package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/httputil"
	"cloudshare/internal/observability"
	"cloudshare/internal/service/presentation"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	files     vfsSvc.FilesystemService
	projector *presentation.Projector
	reporter
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(files vfsSvc.FilesystemService, projector *presentation.Projector, metrics *observability.Metrics, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		files:     files,
		projector: projector,
		reporter:  reporter{logger: logger, metrics: metrics},
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 with the existing folder if the name is taken
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req vfsSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.files.CreateFolder(r.Context(), &req)
	if err != nil {
		var conflictErr *domain.ConflictError
		if errors.As(err, &conflictErr) {
			if existing, getErr := h.files.GetEntry(conflictErr.ResourceID); getErr == nil {
				if f, ok := existing.(*models.Folder); ok {
					httputil.RespondJSON(w, http.StatusConflict, h.projector.FolderView(f))
					return
				}
			}
		}
		h.fail(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, h.projector.FolderView(folder))
}
