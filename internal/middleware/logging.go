package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/logging"
)

// Recoverer turns a handler panic into a logged 500 response
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.Error("Handler panic",
				"request_id", auth.GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			common.RespondError(w, start, errors.New("Internal server error"), "", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
