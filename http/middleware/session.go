package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under sik.SessionKey.
//
// A session that cannot be decoded, e.g., one signed with a rotated secret,
// is replaced by a fresh one rather than failing the request.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := store.GetSession(r)
			if s == nil {
				h.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sik.SessionKey, s)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// SessionFromContext retrieves the session InjectSession stashed.
func SessionFromContext(ctx context.Context) (session.Sessionable, bool) {
	s, ok := ctx.Value(sik.SessionKey).(session.Sessionable)
	return s, ok
}
