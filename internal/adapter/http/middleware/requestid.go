package middleware

import (
	"net/http"

	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID takes the caller-supplied request id or mints one, and puts
// it in both the log context and the response header.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
