package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"notehub-server/pkg/response"
)

// RecoverMiddleware turns a panicking handler into a 500 response.
func RecoverMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					response.InternalError(w, "Server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
