package server

import (
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"llmpanel/pkg/httputil"
	"llmpanel/pkg/logger"
)

// withRecovery converts any panic during request handling into a generic 500
// error payload. The panic value and stack stay server-side.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withRequestID tags every request with an X-Request-ID, reusing the inbound
// header when the client supplied one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "request_id", rid)
		next.ServeHTTP(w, r)
	})
}
