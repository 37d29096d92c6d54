package handler

import (
	"net/http"

	"cloudshare/internal/observability"
)

// Handlers groups every HTTP handler the server mounts
type Handlers struct {
	Entries *EntryHandler
	Folders *FolderHandler
	Uploads *UploadHandler
	Shares  *ShareHandler
	Metrics *observability.Metrics
}

// RegisterRoutes mounts the API on mux (Go 1.22+ enhanced patterns)
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Entries.HealthCheck)
	mux.Handle("GET /metrics", h.Metrics.Handler())

	// Share link landing
	mux.HandleFunc("GET /{$}", h.Shares.ResolveShare)

	// Entry routes
	mux.HandleFunc("GET /api/entries", h.Entries.ListEntries)
	mux.HandleFunc("GET /api/entries/{id}", h.Entries.GetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", h.Entries.UpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", h.Entries.DeleteEntry)
	mux.HandleFunc("GET /api/entries/{id}/content", h.Entries.DownloadContent)

	// Share routes
	mux.HandleFunc("POST /api/entries/{id}/share", h.Shares.ShareFile)
	mux.HandleFunc("DELETE /api/entries/{id}/share", h.Shares.Unshare)
	mux.HandleFunc("GET /api/shares", h.Shares.ListShares)

	// Creation routes
	mux.HandleFunc("POST /api/folders", h.Folders.CreateFolder)
	mux.HandleFunc("POST /api/files", h.Uploads.UploadFiles)
}
