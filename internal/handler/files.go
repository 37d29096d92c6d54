package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/httputil"
	"cloudshare/internal/observability"
	"cloudshare/internal/service/presentation"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temp files.
const multipartMemory = 8 << 20

// UploadHandler handles batch uploads
type UploadHandler struct {
	ingester  vfsSvc.Ingester
	projector *presentation.Projector
	maxBytes  int64
	reporter
}

// NewUploadHandler creates a new upload handler. maxBytes caps the whole
// multipart request.
func NewUploadHandler(ingester vfsSvc.Ingester, projector *presentation.Projector, maxBytes int64, metrics *observability.Metrics, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		ingester:  ingester,
		projector: projector,
		maxBytes:  maxBytes,
		reporter:  reporter{logger: logger, metrics: metrics},
	}
}

// UploadResult is the outcome for one uploaded file
type UploadResult struct {
	Name  string                  `json:"name"`
	File  *presentation.FileView  `json:"file,omitempty"`
	Error *httputil.ProblemDetail `json:"error,omitempty"`
}

// UploadResponse reports every file of a batch in input order
type UploadResponse struct {
	Path    string         `json:"path"`
	Created int            `json:"created"`
	Failed  int            `json:"failed"`
	Results []UploadResult `json:"results"`
}

// UploadFiles ingests the "files" parts of a multipart form into "path".
// POST /api/files
// Returns 201 when every file was created, 207 when some failed, and the
// first failure's status when none was created.
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "no files in upload")
		return
	}

	path := models.NormalizePath(r.FormValue("path"))
	uploads := make([]vfsSvc.Upload, len(headers))
	for i, fh := range headers {
		uploads[i] = uploadFromHeader(fh)
	}

	results := h.ingester.Ingest(r.Context(), path, uploads)

	resp := UploadResponse{Path: path, Results: make([]UploadResult, len(results))}
	var firstErr error
	for i, res := range results {
		resp.Results[i].Name = res.Name
		if res.File != nil {
			// also set when the file was created but not yet persisted
			view := h.projector.FileView(res.File, false)
			resp.Results[i].File = &view
		}
		if res.Err != nil {
			resp.Failed++
			problem := httputil.NewProblem(statusFor(res.Err), res.Err.Error())
			resp.Results[i].Error = &problem
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		resp.Created++
	}

	h.metrics.UploadResults(resp.Created, resp.Failed)
	h.logger.Info("upload processed",
		"request_id", httputil.GetRequestID(r),
		"path", path,
		"created", resp.Created,
		"failed", resp.Failed,
	)

	switch {
	case resp.Failed == 0:
		httputil.RespondJSON(w, http.StatusCreated, resp)
	case resp.Created > 0:
		httputil.RespondJSON(w, http.StatusMultiStatus, resp)
	default:
		status := statusFor(firstErr)
		if status == http.StatusInsufficientStorage {
			h.metrics.StorageWriteFailed()
		}
		httputil.RespondErrorWithExtras(w, status, firstErr.Error(), map[string]any{
			"path":    resp.Path,
			"results": resp.Results,
		})
	}
}

func uploadFromHeader(fh *multipart.FileHeader) vfsSvc.Upload {
	return vfsSvc.Upload{
		Name:        fh.Filename,
		SizeBytes:   fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
