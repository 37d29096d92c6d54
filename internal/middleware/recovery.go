package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"cloudshare/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem document. The body
// carries the request id so a client report can be matched to the logged
// stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := httputil.GetRequestID(r)
				logger.Error("handler panicked",
					"panic", rec,
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				problem := httputil.NewProblem(http.StatusInternalServerError, "internal server error")
				problem.Instance = r.URL.Path
				if requestID != "" {
					problem.Extra = map[string]any{"request_id": requestID}
				}
				httputil.RespondProblem(w, problem)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
