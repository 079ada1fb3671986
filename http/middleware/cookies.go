package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/cookie"
)

// ParseCookies sorts the request's cookies into plain and signed values using jar
// and stashes them in the *http.Request.Context under sik.CookiesKey.
// Retrieve them with cookie.FromContext.
//
// If jar is nil, NoopAdapter returns and this middleware does nothing.
func ParseCookies(jar *cookie.Jar) Adapter {
	if jar == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), sik.CookiesKey, jar.Parse(r))
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
