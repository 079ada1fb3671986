package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/sik"
)

// RequestIDHeader is echoed back on every response with the request's ID.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under sik.RequestIDKey
// and sets it on the response's RequestIDHeader.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), sik.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
