package httpx

import (
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware must sit inside AccessLogMiddleware so it can tell
// whether a response was already started.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				LoggerFrom(r.Context()).Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				var wroteHeader bool
				if rw, ok := w.(*responseWriter); ok {
					wroteHeader = rw.wroteHeader()
				}

				if !wroteHeader {
					JSONError(w, http.StatusInternalServerError, internalErrorMessage)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
