package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cloudshare/internal/domain"
	"cloudshare/internal/httputil"
	"cloudshare/internal/observability"
)

// statusFor maps domain errors to HTTP status codes. Wrapped and joined
// errors report the status of the first domain error found.
func statusFor(err error) int {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	var conflictErr *domain.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, status, conflictErr.Error(), map[string]any{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case status == http.StatusInternalServerError:
		httputil.RespondError(w, status, "internal server error")
	case status == http.StatusInsufficientStorage:
		// the change was applied in memory and will be written again later
		httputil.RespondErrorWithExtras(w, status, err.Error(), map[string]any{"retained": true})
	default:
		httputil.RespondError(w, status, err.Error())
	}
}

// reporter logs and counts failures before writing the problem response
type reporter struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

func (rp reporter) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInsufficientStorage {
		rp.metrics.StorageWriteFailed()
	}
	if status >= http.StatusInternalServerError {
		rp.logger.Error("request failed",
			"error", err,
			"status", status,
			"request_id", httputil.GetRequestID(r),
			"path", r.URL.Path,
		)
	}
	handleError(w, err)
}
