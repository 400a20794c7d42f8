package middleware

import (
	"fmt"
	"net/http"
)

// Recover turns a handler panic into a 500 response and closes the
// connection instead of tearing down the whole server.
func (a *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				w.Header().Set("Connection", "close")
				errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("%v", p))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
